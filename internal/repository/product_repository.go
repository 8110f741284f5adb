package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/text/currency"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
	"github.com/andrepsousa/AdegaDigital/internal/port"
)

type productRepository struct {
	db DBTX
}

func newProductRepository(db DBTX) port.ProductRepository {
	return &productRepository{db: db}
}

const selectProduct = `
	SELECT id, name, description, price_amount, price_currency, stock, image, created_at
	FROM products
	WHERE id = $1`

func (r *productRepository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRow(ctx, selectProduct, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetProductForUpdate(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRow(ctx, selectProduct+` FOR UPDATE`, id)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) DebitStock(ctx context.Context, id int64, qty int32) error {
	if qty < 1 {
		return fmt.Errorf("qty must be at least 1, got %d", qty)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock IS NOT NULL`,
		id, qty)
	if err != nil {
		return fmt.Errorf("update stock for product %d: %w", id, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrProductNotFound, id)
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		product      domain.Product
		description  *string
		currencyCode string
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&description,
		&product.Price.Amount,
		&currencyCode,
		&product.Stock,
		&product.Image,
		&product.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if description != nil {
		product.Description = *description
	}

	parsedCurrency, err := currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}
	product.Price.Currency = parsedCurrency

	return product, nil
}
