package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// CartLine is the canonical normalized form every cart shape reduces to.
type CartLine struct {
	ProductID int64
	Quantity  int32
}

// QuantityEntry is one entry of the flat product-id -> quantity shape.
// Both values arrive as strings because session carts are decoded JSON
// objects keyed by string.
type QuantityEntry struct {
	ProductID string
	Quantity  string
}

// CartItemEntry is one entry of the keyed session-cart shape: a product id
// mapped to a record carrying the quantity plus cached display fields. The
// cached name, price and image are carried for the caller's benefit only;
// normalization reads nothing but the quantity, and finalization always
// prices from the current catalog.
type CartItemEntry struct {
	ProductID string

	// Qty is preferred over Quantity when both are set.
	Qty      string
	Quantity string

	Name  string
	Price decimal.Decimal
	Image string
}

type cartShape int

const (
	shapeEmpty cartShape = iota
	shapeLines
	shapeItems
	shapeQuantities
)

// Cart is a tagged union over the shapes a caller-held cart can take. It is
// built through exactly one of the CartFrom constructors; the zero Cart is
// valid and normalizes to nothing. Entry order of the backing slice is
// preserved through normalization.
type Cart struct {
	shape      cartShape
	lines      []CartLine
	items      []CartItemEntry
	quantities []QuantityEntry
}

// CartFromLines wraps an already-normalized sequence of lines.
func CartFromLines(lines []CartLine) Cart {
	return Cart{shape: shapeLines, lines: lines}
}

// CartFromItems wraps the keyed session-cart shape.
func CartFromItems(items []CartItemEntry) Cart {
	return Cart{shape: shapeItems, items: items}
}

// CartFromQuantities wraps the flat product-id -> quantity shape.
func CartFromQuantities(entries []QuantityEntry) Cart {
	return Cart{shape: shapeQuantities, quantities: entries}
}

// Normalize reduces the cart to its canonical line sequence. Product ids and
// quantities are coerced to integers; any value that does not coerce, and
// any quantity below one, fails with ErrInvalidCartEntry. An empty cart of
// any shape normalizes to an empty sequence.
func (c Cart) Normalize() ([]CartLine, error) {
	switch c.shape {
	case shapeEmpty:
		return nil, nil

	case shapeLines:
		for _, line := range c.lines {
			if err := validateLine(line.ProductID, line.Quantity); err != nil {
				return nil, err
			}
		}
		return c.lines, nil

	case shapeItems:
		lines := make([]CartLine, 0, len(c.items))
		for _, entry := range c.items {
			qty := entry.Qty
			if qty == "" {
				qty = entry.Quantity
			}
			line, err := coerceLine(entry.ProductID, qty)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return lines, nil

	case shapeQuantities:
		lines := make([]CartLine, 0, len(c.quantities))
		for _, entry := range c.quantities {
			line, err := coerceLine(entry.ProductID, entry.Quantity)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return lines, nil
	}

	return nil, fmt.Errorf("%w: unknown cart shape", ErrInvalidCartEntry)
}

func coerceLine(productID, quantity string) (CartLine, error) {
	pid, err := strconv.ParseInt(productID, 10, 64)
	if err != nil {
		return CartLine{}, fmt.Errorf("%w: product id %q is not an integer", ErrInvalidCartEntry, productID)
	}

	qty, err := strconv.ParseInt(quantity, 10, 32)
	if err != nil {
		return CartLine{}, fmt.Errorf("%w: quantity %q for product %d is not an integer", ErrInvalidCartEntry, quantity, pid)
	}

	if err := validateLine(pid, int32(qty)); err != nil {
		return CartLine{}, err
	}

	return CartLine{ProductID: pid, Quantity: int32(qty)}, nil
}

func validateLine(productID int64, quantity int32) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d for product %d must be at least 1", ErrInvalidCartEntry, quantity, productID)
	}
	return nil
}
