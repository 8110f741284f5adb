package domain

import "errors"

// Checkout error kinds. Callers match them with errors.Is; the wrapped
// message carries the human-readable detail.
var (
	// ErrInvalidCartEntry marks a cart entry whose product id or quantity
	// could not be coerced to a usable integer.
	ErrInvalidCartEntry = errors.New("invalid cart entry")

	// ErrEmptyCart is returned when a finalization has nothing to do.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrProductNotFound is returned when a referenced product id does not
	// exist in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned in strict mode when available stock
	// cannot cover a requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCurrencyMismatch is returned when cart lines price in different
	// currencies; one order carries one currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrPersistence wraps any storage failure during the atomic commit.
	ErrPersistence = errors.New("persistence failure")
)
