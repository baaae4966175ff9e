// Package orders provides the order aggregate: header plus line items
// written as one atomic unit at checkout.
package orders

import (
	"time"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/money"
)

// PaymentMethod enumerates how an order was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// IsValid checks if the payment method is valid.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard:
		return true
	default:
		return false
	}
}

// Status represents the lifecycle of an order.
type Status string

const (
	StatusPending   Status = "pending"   // Initial state at creation
	StatusCompleted Status = "completed" // Payment settled
	StatusCancelled Status = "cancelled" // Abandoned or voided
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Order is the persisted order header. The total equals the sum of its line
// item subtotals at the moment of creation and is never recomputed.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	Total         money.Amount  `json:"total_amount" db:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Status        Status        `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Item is one line of an order. UnitPrice is a snapshot of the product's
// price at order creation; later catalog edits never touch existing items.
type Item struct {
	ID        int64        `json:"id" db:"id"`
	OrderID   int64        `json:"order_id" db:"order_id"`
	ProductID int64        `json:"product_id" db:"product_id"`
	Quantity  int          `json:"quantity" db:"quantity"`
	UnitPrice money.Amount `json:"unit_price" db:"unit_price"`
	Subtotal  money.Amount `json:"subtotal" db:"subtotal"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// ItemWithProduct annotates a line item with the product projection used for
// display. The projection carries no price; the snapshot on the item wins.
type ItemWithProduct struct {
	Item
	Product catalog.Projection `json:"product"`
}

// OrderWithItems is the detail view returned by order reads.
type OrderWithItems struct {
	Order
	Items []ItemWithProduct `json:"items"`
}

// ProductRef is the slice of product data the order builder needs when
// pricing a cart: identity for validation, price for the snapshot.
type ProductRef struct {
	ID       int64
	ScanCode string
	Name     string
	Price    money.Amount
}
