package catalog

import "github.com/swiftpos/swiftpos/internal/money"

// CreateProductRequest represents request to register a new product.
type CreateProductRequest struct {
	ScanCode string       `json:"scan_code" validate:"required,max=100"`
	Name     string       `json:"name" validate:"required,max=200"`
	Price    money.Amount `json:"price"`
}

// UpdateProductRequest carries a sparse patch: nil pointers leave the field
// unchanged.
type UpdateProductRequest struct {
	ScanCode *string       `json:"scan_code,omitempty" validate:"omitempty,min=1,max=100"`
	Name     *string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Price    *money.Amount `json:"price,omitempty"`
}
