package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftpos/swiftpos/internal/money"
)

// Repository defines the interface for product persistence.
type Repository interface {
	Create(ctx context.Context, p Product) (Product, error)
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByScanCode(ctx context.Context, code string) (*Product, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
}

// repository implements Repository using pgxpool.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	query := `
		INSERT INTO products (scan_code, name, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	now := time.Now()
	err := r.pool.QueryRow(ctx, query, p.ScanCode, p.Name, p.Price.String(), now, now).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrDuplicateScanCode
		}
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := `
		SELECT id, scan_code, name, price, created_at, updated_at
		FROM products
		ORDER BY name, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT id, scan_code, name, price, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

// GetByScanCode performs an exact, case-sensitive match on the scan code.
func (r *repository) GetByScanCode(ctx context.Context, code string) (*Product, error) {
	query := `
		SELECT id, scan_code, name, price, created_at, updated_at
		FROM products
		WHERE scan_code = $1
	`
	return r.getOne(ctx, query, code)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update applies a sparse field patch and refreshes updated_at.
func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	var setClauses []string
	var args []interface{}
	argPos := 1

	for field, value := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field, argPos))
		args = append(args, value)
		argPos++
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now())
	argPos++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE products
		SET %s
		WHERE id = $%d
	`, strings.Join(setClauses, ", "), argPos)

	cmdTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateScanCode
		}
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads a product row, parsing the numeric price column from its
// text form into fixed-point cents.
func scanProduct(row rowScanner) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.ScanCode, &p.Name, &price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	amount, err := money.FromDecimalString(price)
	if err != nil {
		return Product{}, fmt.Errorf("parse price for product %d: %w", p.ID, err)
	}
	p.Price = amount
	return p, nil
}
