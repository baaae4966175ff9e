package jobs

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/money"
	"github.com/swiftpos/swiftpos/internal/orders"
)

func TestRenderReceipt(t *testing.T) {
	handler := NewReceiptHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	created := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	order := &orders.OrderWithItems{
		Order: orders.Order{
			ID:            42,
			Total:         money.FromCents(6993),
			PaymentMethod: orders.PaymentCash,
			Status:        orders.StatusCompleted,
			CreatedAt:     created,
		},
		Items: []orders.ItemWithProduct{
			{
				Item: orders.Item{
					ProductID: 1,
					Quantity:  2,
					UnitPrice: money.FromCents(1999),
					Subtotal:  money.FromCents(3998),
				},
				Product: catalog.Projection{ID: 1, Name: "Cola", ScanCode: "QR-COLA"},
			},
			{
				Item: orders.Item{
					ProductID: 2,
					Quantity:  1,
					UnitPrice: money.FromCents(2995),
					Subtotal:  money.FromCents(2995),
				},
				Product: catalog.Projection{ID: 2, Name: "Chips", ScanCode: "QR-CHIPS"},
			},
		},
	}

	receipt := handler.Render(order)

	assert.Contains(t, receipt, "Order #42 (2026-08-31 14:30)")
	assert.Contains(t, receipt, "2 x Cola @ 19.99 = 39.98")
	assert.Contains(t, receipt, "1 x Chips @ 29.95 = 29.95")
	assert.Contains(t, receipt, "TOTAL 69.93 paid by cash")
}
