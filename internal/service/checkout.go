package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
	"github.com/andrepsousa/AdegaDigital/internal/port"
)

// FinalizeOptions control the stock policy of a finalization.
type FinalizeOptions struct {
	// AllowPartial reduces a line to the available stock instead of
	// failing when stock is insufficient. Lines with zero stock are
	// skipped entirely.
	AllowPartial bool

	// IgnoreStock skips stock reads and debits altogether. Only for
	// callers that reserved stock elsewhere.
	IgnoreStock bool
}

// Result is the success payload of a finalization. Warnings carry the
// non-fatal partial-fulfillment notes; fatal conditions are returned as the
// error instead.
type Result struct {
	Order    domain.Order
	Warnings []string
	Total    domain.Money
}

// Checkout turns caller-held carts into persisted orders.
type Checkout struct {
	store port.Store
}

// NewCheckout builds the service over a store. Pass a store from
// repository.NewStoreWithTx to finalize inside an already-open transaction.
func NewCheckout(store port.Store) *Checkout {
	return &Checkout{store: store}
}

// Finalize validates the cart against the catalog, applies the stock
// policy, prices every line at current catalog prices and persists the
// order with status paid. The order, its items and every stock debit commit
// atomically; any fatal error rolls back all of it.
func (c *Checkout) Finalize(ctx context.Context, ownerID int64, cart domain.Cart, opts FinalizeOptions) (Result, error) {
	lines, err := cart.Normalize()
	if err != nil {
		return Result{}, err
	}

	if len(lines) == 0 {
		return Result{}, domain.ErrEmptyCart
	}

	var result Result

	err = c.store.WithinTx(ctx, func(s port.Store) error {
		order, warnings, err := c.buildOrder(ctx, s, ownerID, lines, opts)
		if err != nil {
			return err
		}

		order.Status = domain.OrderStatusPaid

		created, err := s.Orders().CreateOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("CreateOrder: %w", err)
		}

		result = Result{
			Order:    created,
			Warnings: warnings,
			Total:    created.Total,
		}
		return nil
	})
	if err != nil {
		if isCheckoutError(err) {
			return Result{}, err
		}
		log.Error().Err(err).Int64("owner_id", ownerID).Msg("checkout: finalization failed to persist")
		return Result{}, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	log.Info().
		Stringer("order_id", result.Order.ID).
		Int64("owner_id", ownerID).
		Str("total", result.Total.Amount.StringFixed(2)).
		Int("items", len(result.Order.Items)).
		Msg("checkout: order finalized")

	return result, nil
}

// buildOrder walks the normalized lines in order, resolving products,
// applying the stock policy and debiting stock as it goes.
func (c *Checkout) buildOrder(ctx context.Context, s port.Store, ownerID int64, lines []domain.CartLine, opts FinalizeOptions) (domain.Order, []string, error) {
	order := domain.Order{
		OwnerID: ownerID,
		Status:  domain.OrderStatusPending,
		Total:   domain.Money{Amount: decimal.Zero, Currency: domain.DefaultCurrency},
	}

	var warnings []string

	for _, line := range lines {
		product, err := c.resolveProduct(ctx, s, line.ProductID, opts)
		if err != nil {
			return domain.Order{}, nil, err
		}

		usedQty, skip, warning, err := usedQuantity(product, line.Quantity, opts)
		if err != nil {
			return domain.Order{}, nil, err
		}
		if skip {
			continue
		}
		if warning != "" {
			warnings = append(warnings, warning)
			log.Warn().
				Int64("product_id", product.ID).
				Int32("requested", line.Quantity).
				Int32("used", usedQty).
				Msg("checkout: quantity reduced to available stock")
		}

		if len(order.Items) == 0 {
			order.Total.Currency = product.Price.Currency
		} else if !order.Total.SameCurrency(product.Price) {
			return domain.Order{}, nil, fmt.Errorf("%w: product %q prices in %s, order is in %s",
				domain.ErrCurrencyMismatch, product.Name, product.Price.Currency, order.Total.Currency)
		}

		order.Total = order.Total.Add(product.Price.MulQty(usedQty))

		if !opts.IgnoreStock && product.StockTracked() {
			if err := s.Products().DebitStock(ctx, product.ID, usedQty); err != nil {
				return domain.Order{}, nil, fmt.Errorf("DebitStock: %w", err)
			}
		}

		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    product.ID,
			Quantity:     usedQty,
			UnitPrice:    product.Price,
			ProductImage: product.Image,
		})
	}

	return order, warnings, nil
}

func (c *Checkout) resolveProduct(ctx context.Context, s port.Store, id int64, opts FinalizeOptions) (domain.Product, error) {
	// The row lock serializes concurrent checkouts touching the same
	// product; skip it when stock will not be read or written.
	if opts.IgnoreStock {
		return s.Products().GetProduct(ctx, id)
	}
	return s.Products().GetProductForUpdate(ctx, id)
}

// usedQuantity applies the stock policy to one line.
func usedQuantity(product domain.Product, requested int32, opts FinalizeOptions) (used int32, skip bool, warning string, err error) {
	if opts.IgnoreStock || !product.StockTracked() {
		return requested, false, "", nil
	}

	available := product.AvailableStock()
	if available >= requested {
		return requested, false, "", nil
	}

	if opts.AllowPartial {
		if available == 0 {
			return 0, true, "", nil
		}
		warning = fmt.Sprintf("quantity of product %q reduced from %d to %d due to insufficient stock",
			product.Name, requested, available)
		return available, false, warning, nil
	}

	return 0, false, "", fmt.Errorf("%w: product %q has %d, requested %d",
		domain.ErrInsufficientStock, product.Name, available, requested)
}

func isCheckoutError(err error) bool {
	return errors.Is(err, domain.ErrInvalidCartEntry) ||
		errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrCurrencyMismatch)
}
