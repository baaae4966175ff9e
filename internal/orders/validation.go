package orders

import "fmt"

// ValidateCreateOrder validates create request before any storage access.
func ValidateCreateOrder(req CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: %w", i+1, ErrInvalidQuantity)
		}
		if item.ProductID <= 0 {
			return fmt.Errorf("item %d: product id must be positive", i+1)
		}
	}
	if !req.PaymentMethod.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}
	return nil
}
