package port

import (
	"context"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)

	// GetProductForUpdate reads the product with a row lock held for the
	// rest of the ambient transaction, serializing concurrent checkouts
	// against the same product.
	GetProductForUpdate(ctx context.Context, id int64) (domain.Product, error)

	// DebitStock subtracts qty from the product's stock count.
	DebitStock(ctx context.Context, id int64, qty int32) error
}
