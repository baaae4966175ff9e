package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/swiftpos/swiftpos/internal/orders"
)

// OrderLoader reads the order detail a receipt is rendered from.
type OrderLoader interface {
	GetWithItems(ctx context.Context, id int64) (*orders.OrderWithItems, error)
}

// ReceiptHandler processes TaskTypeOrderReceipt tasks. Rendered receipts go
// to the log; a printer integration can tail them from there.
type ReceiptHandler struct {
	logger  *slog.Logger
	loader  OrderLoader
	printer *message.Printer
}

// NewReceiptHandler constructs a receipt handler.
func NewReceiptHandler(logger *slog.Logger, loader OrderLoader) *ReceiptHandler {
	return &ReceiptHandler{
		logger:  logger,
		loader:  loader,
		printer: message.NewPrinter(language.English),
	}
}

// Handle renders and logs the receipt for the order in the payload.
func (h *ReceiptHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrderReceiptPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	order, err := h.loader.GetWithItems(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			h.logger.Warn("receipt for unknown order", slog.Int64("order_id", payload.OrderID))
			return asynq.SkipRetry
		}
		return err
	}

	h.logger.Info("receipt rendered",
		slog.Int64("order_id", order.ID),
		slog.String("receipt", h.Render(order)))
	return nil
}

// Render produces the plain-text receipt for an order.
func (h *ReceiptHandler) Render(order *orders.OrderWithItems) string {
	var b strings.Builder
	h.printer.Fprintf(&b, "Order #%d (%s)\n", order.ID, order.CreatedAt.Format("2006-01-02 15:04"))
	for _, item := range order.Items {
		h.printer.Fprintf(&b, "%d x %s @ %s = %s\n",
			item.Quantity, item.Product.Name, item.UnitPrice.String(), item.Subtotal.String())
	}
	h.printer.Fprintf(&b, "TOTAL %s paid by %s\n", order.Total.String(), order.PaymentMethod)
	return b.String()
}
