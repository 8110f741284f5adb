package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
)

type OrderRepository interface {
	// CreateOrder persists the order and all of its items within the
	// ambient transaction and returns the stored record.
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)

	// OrdersByOwner returns the owner's orders, newest first, items included.
	OrdersByOwner(ctx context.Context, ownerID int64) ([]domain.Order, error)
}
