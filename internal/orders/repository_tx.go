package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/swiftpos/swiftpos/internal/money"
)

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetProductRefs(ctx context.Context, ids []int64) (map[int64]ProductRef, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT id, scan_code, name, price
		FROM products
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	refs := make(map[int64]ProductRef, len(ids))
	for rows.Next() {
		var (
			ref   ProductRef
			price string
		)
		if err := rows.Scan(&ref.ID, &ref.ScanCode, &ref.Name, &price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if ref.Price, err = money.FromDecimalString(price); err != nil {
			return nil, fmt.Errorf("product %d price: %w", ref.ID, err)
		}
		refs[ref.ID] = ref
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return refs, nil
}

func (r *txRepository) CreateOrder(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO orders (total_amount, payment_method, status)
		VALUES ($1, $2, $3)
		RETURNING id`,
		order.Total.String(), order.PaymentMethod, order.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

func (r *txRepository) InsertItem(ctx context.Context, item Item) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity,
		item.UnitPrice.String(), item.Subtotal.String(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order item: %w", err)
	}
	return id, nil
}

func (r *txRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
