// Package catalog provides product catalog entity logic.
package catalog

import (
	"time"

	"github.com/swiftpos/swiftpos/internal/money"
)

// Product represents an item that can be scanned at the register. The scan
// code is the unique external identifier carried by the barcode/QR label.
type Product struct {
	ID        int64        `json:"id" db:"id"`
	ScanCode  string       `json:"scan_code" db:"scan_code"`
	Name      string       `json:"name" db:"name"`
	Price     money.Amount `json:"price" db:"price"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// Projection is the minimal product view attached to order line items for
// display. It deliberately omits the price: line items carry their own
// snapshot taken at order time.
type Projection struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ScanCode string `json:"scan_code" db:"scan_code"`
}
