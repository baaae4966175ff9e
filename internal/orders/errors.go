package orders

import "errors"

// Domain errors for orders.
var (
	// ErrNotFound indicates the requested order was not found.
	ErrNotFound = errors.New("order not found")

	// ErrProductsNotFound indicates one or more referenced products do not
	// exist. The wrapped message enumerates every missing id.
	ErrProductsNotFound = errors.New("products not found")

	// Validation errors.
	ErrEmptyItems           = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidStatus        = errors.New("invalid order status")
)
