// Package cart implements the session cart that backs the register UI. A
// cart is a serializable value object driven by pure reducer methods; all
// persistence lives in Store.
package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swiftpos/swiftpos/internal/catalog"
	"github.com/swiftpos/swiftpos/internal/money"
)

// State is the cart lifecycle state.
type State string

const (
	StateEmpty      State = "empty"
	StateBuilding   State = "building"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// Reducer errors.
var (
	ErrLocked          = errors.New("cart is not editable in its current state")
	ErrLineNotFound    = errors.New("product is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrEmptyCart       = errors.New("cannot check out an empty cart")
	ErrNotSubmitting   = errors.New("cart has no checkout in flight")
)

// Line is one product entry in the cart. UnitPrice is the catalog price at
// the moment the product was added; checkout reprices against the database.
type Line struct {
	ProductID int64        `json:"product_id"`
	ScanCode  string       `json:"scan_code"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
	Subtotal  money.Amount `json:"subtotal"`
}

// Cart is the register-side cart. Every mutation recomputes line subtotals
// and the running total, so the stored form is always internally consistent.
type Cart struct {
	ID            string       `json:"id"`
	State         State        `json:"state"`
	Items         []Line       `json:"items"`
	Total         money.Amount `json:"total"`
	OrderID       *int64       `json:"order_id,omitempty"`
	FailureReason *string      `json:"failure_reason,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// New returns an empty cart with a fresh session id.
func New() *Cart {
	return &Cart{
		ID:        uuid.NewString(),
		State:     StateEmpty,
		Items:     []Line{},
		UpdatedAt: time.Now().UTC(),
	}
}

// beginMutation gates edits by state. A failed checkout unlocks the cart
// again; an in-flight or confirmed one does not.
func (c *Cart) beginMutation() error {
	switch c.State {
	case StateSubmitting, StateConfirmed:
		return ErrLocked
	case StateFailed:
		c.State = StateBuilding
		c.FailureReason = nil
	}
	return nil
}

// AddProduct puts the product in the cart, merging with an existing line for
// the same product by summing quantities.
func (c *Cart) AddProduct(p *catalog.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := c.beginMutation(); err != nil {
		return err
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			c.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Items = append(c.Items, Line{
			ProductID: p.ID,
			ScanCode:  p.ScanCode,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  quantity,
		})
	}
	c.recompute()
	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (c *Cart) SetQuantity(productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := c.beginMutation(); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.recompute()
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveProduct drops the line for the given product.
func (c *Cart) RemoveProduct(productID int64) error {
	if err := c.beginMutation(); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recompute()
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart and returns it to the initial state.
func (c *Cart) Clear() error {
	if err := c.beginMutation(); err != nil {
		return err
	}
	c.Items = []Line{}
	c.recompute()
	return nil
}

// BeginCheckout locks the cart while the order write is in flight.
func (c *Cart) BeginCheckout() error {
	switch c.State {
	case StateSubmitting, StateConfirmed:
		return ErrLocked
	case StateEmpty:
		return ErrEmptyCart
	}
	if len(c.Items) == 0 {
		return ErrEmptyCart
	}
	c.State = StateSubmitting
	c.FailureReason = nil
	c.touch()
	return nil
}

// ConfirmOrder records the persisted order and finishes the cart.
func (c *Cart) ConfirmOrder(orderID int64) error {
	if c.State != StateSubmitting {
		return ErrNotSubmitting
	}
	c.State = StateConfirmed
	c.OrderID = &orderID
	c.touch()
	return nil
}

// FailCheckout reopens the cart after a failed order write, keeping the
// items so the cashier can retry.
func (c *Cart) FailCheckout(reason string) error {
	if c.State != StateSubmitting {
		return ErrNotSubmitting
	}
	c.State = StateFailed
	c.FailureReason = &reason
	c.touch()
	return nil
}

func (c *Cart) recompute() {
	var total money.Amount
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].UnitPrice.MulQty(c.Items[i].Quantity)
		total = total.Add(c.Items[i].Subtotal)
	}
	c.Total = total
	if len(c.Items) == 0 {
		c.State = StateEmpty
	} else {
		c.State = StateBuilding
	}
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}
