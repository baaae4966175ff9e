package catalog

import "errors"

// ErrInvalidPrice indicates a zero or negative product price.
var ErrInvalidPrice = errors.New("price must be positive")

// ValidateCreateProduct validates create request.
func ValidateCreateProduct(req CreateProductRequest) error {
	if req.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// ValidateUpdateProduct validates update request.
func ValidateUpdateProduct(req UpdateProductRequest) error {
	if req.Price != nil && *req.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
