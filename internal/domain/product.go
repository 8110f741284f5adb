package domain

import (
	"time"
)

// Product is the catalog view the checkout core consumes: enough to price a
// line and to apply stock policy. The catalog itself owns the full record.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       Money

	// Stock is nil when stock is not tracked for this product.
	Stock *int32

	Image *string

	CreatedAt time.Time
}

// StockTracked reports whether the product carries a stock count at all.
func (p Product) StockTracked() bool {
	return p.Stock != nil
}

// AvailableStock returns the current stock count; only meaningful when
// StockTracked is true.
func (p Product) AvailableStock() int32 {
	if p.Stock == nil {
		return 0
	}
	return *p.Stock
}
