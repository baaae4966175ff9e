package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/money"
	"github.com/swiftpos/swiftpos/internal/platform/db"
)

// Repository defines data access for orders.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetWithItems(ctx context.Context, id int64) (*OrderWithItems, error)
	List(ctx context.Context) ([]Order, error)
	WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error
}

// TxRepository defines the write side of an order transaction. Every method
// runs on the same database transaction; a returned error aborts it.
type TxRepository interface {
	GetProductRefs(ctx context.Context, ids []int64) (map[int64]ProductRef, error)
	CreateOrder(ctx context.Context, order Order) (int64, error)
	InsertItem(ctx context.Context, item Item) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, total_amount, payment_method, status, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *repository) GetWithItems(ctx context.Context, id int64) (*OrderWithItems, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity,
		       oi.unit_price, oi.subtotal, oi.created_at,
		       p.id, p.name, p.scan_code
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, id)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := []ItemWithProduct{}
	for rows.Next() {
		var (
			it        ItemWithProduct
			unitPrice string
			subtotal  string
			prod      catalog.Projection
		)
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&unitPrice, &subtotal, &it.CreatedAt,
			&prod.ID, &prod.Name, &prod.ScanCode,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if it.UnitPrice, err = money.FromDecimalString(unitPrice); err != nil {
			return nil, fmt.Errorf("order item %d unit price: %w", it.ID, err)
		}
		if it.Subtotal, err = money.FromDecimalString(subtotal); err != nil {
			return nil, fmt.Errorf("order item %d subtotal: %w", it.ID, err)
		}
		it.Product = prod
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return &OrderWithItems{Order: *order, Items: items}, nil
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o     Order
		total string
	)
	if err := row.Scan(&o.ID, &total, &o.PaymentMethod, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	amount, err := money.FromDecimalString(total)
	if err != nil {
		return nil, fmt.Errorf("order %d total: %w", o.ID, err)
	}
	o.Total = amount
	return &o, nil
}
