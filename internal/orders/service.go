package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/swiftpos/swiftpos/internal/money"
	"github.com/swiftpos/swiftpos/internal/shared"
)

// AuditRecorder persists audit trail entries for order mutations.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ReceiptEnqueuer schedules receipt rendering for a completed order.
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, orderID int64) error
}

// Service implements order business logic.
type Service struct {
	logger   *slog.Logger
	repo     Repository
	audit    AuditRecorder
	receipts ReceiptEnqueuer
}

// NewService creates a new order service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// SetAudit attaches an audit recorder. Audit failures never fail the
// business operation; they are logged and dropped.
func (s *Service) SetAudit(audit AuditRecorder) {
	s.audit = audit
}

// SetReceipts attaches a receipt queue. Enqueue failures never fail the
// status update; the order stays completed and the failure is logged.
func (s *Service) SetReceipts(receipts ReceiptEnqueuer) {
	s.receipts = receipts
}

// Create validates the cart, prices every line against the current catalog
// and writes the order header together with all line items in one
// transaction. When any referenced product is missing, the error names every
// missing id and nothing is written.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := ValidateCreateOrder(req); err != nil {
		return nil, err
	}

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		refs, err := tx.GetProductRefs(ctx, distinctProductIDs(req.Items))
		if err != nil {
			return err
		}

		if missing := missingProductIDs(req.Items, refs); len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrProductsNotFound, joinIDs(missing))
		}

		var total money.Amount
		items := make([]Item, 0, len(req.Items))
		for _, line := range req.Items {
			ref := refs[line.ProductID]
			subtotal := ref.Price.MulQty(line.Quantity)
			total = total.Add(subtotal)
			items = append(items, Item{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: ref.Price,
				Subtotal:  subtotal,
			})
		}

		orderID, err = tx.CreateOrder(ctx, Order{
			Total:         total,
			PaymentMethod: req.PaymentMethod,
			Status:        StatusPending,
		})
		if err != nil {
			return err
		}

		for _, item := range items {
			item.OrderID = orderID
			if _, err := tx.InsertItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", orderID, err)
	}

	s.recordAudit(ctx, "order.created", orderID, map[string]any{
		"total_amount":   order.Total.String(),
		"payment_method": string(order.PaymentMethod),
		"item_count":     len(req.Items),
	})
	return order, nil
}

// GetByID returns the order with its line items, each annotated with the
// product it references. The second return reports whether the order exists.
func (s *Service) GetByID(ctx context.Context, id int64) (*OrderWithItems, bool, error) {
	order, err := s.repo.GetWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return order, true, nil
}

// List returns all order headers, most recent first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []Order{}
	}
	return orders, nil
}

// UpdateStatus moves the order to the given status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateStatus(ctx, id, status)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", id, err)
	}

	s.recordAudit(ctx, "order.status_changed", id, map[string]any{
		"status": string(status),
	})

	if status == StatusCompleted && s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, id); err != nil {
			s.logger.Warn("enqueue receipt failed",
				slog.Int64("order_id", id),
				slog.Any("error", err))
		}
	}
	return order, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, orderID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "order",
		EntityID: strconv.FormatInt(orderID, 10),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit record failed",
			slog.String("action", action),
			slog.Int64("order_id", orderID),
			slog.Any("error", err))
	}
}

func distinctProductIDs(items []CartItemRequest) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func missingProductIDs(items []CartItemRequest, refs map[int64]ProductRef) []int64 {
	missing := []int64{}
	seen := make(map[int64]struct{})
	for _, item := range items {
		if _, ok := refs[item.ProductID]; ok {
			continue
		}
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		missing = append(missing, item.ProductID)
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
