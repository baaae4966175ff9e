package orders

// CartItemRequest is one (product, quantity) pair of a checkout. The same
// product id may appear more than once; each occurrence becomes its own line
// item.
type CartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents request to create an order from cart items.
type CreateOrderRequest struct {
	Items         []CartItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod PaymentMethod     `json:"payment_method" validate:"required"`
}

// UpdateStatusRequest represents request to move an order to a new status.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}
