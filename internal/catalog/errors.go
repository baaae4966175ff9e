package catalog

import "errors"

// Domain errors for the product catalog.
var (
	// ErrNotFound indicates the requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateScanCode indicates the scan code is already assigned to
	// another product.
	ErrDuplicateScanCode = errors.New("scan code already in use")
)
