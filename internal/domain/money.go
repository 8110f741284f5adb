package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used for totals of orders that ended up with no items.
var DefaultCurrency = currency.BRL

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// MulQty multiplies the amount by an item quantity, keeping the currency.
func (m Money) MulQty(qty int32) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt32(qty)),
		Currency: m.Currency,
	}
}

// Add sums two amounts. Currencies must match; the caller guards that.
func (m Money) Add(other Money) Money {
	return Money{
		Amount:   m.Amount.Add(other.Amount),
		Currency: m.Currency,
	}
}

func (m Money) SameCurrency(other Money) bool {
	return m.Currency.String() == other.Currency.String()
}
