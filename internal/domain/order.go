package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID      uuid.UUID
	OwnerID int64
	Status  OrderStatus
	Total   Money
	Items   []OrderItem

	CreatedAt time.Time
}

// OrderItem snapshots a product at finalization time: the unit price and
// image are captured copies, independent of later catalog changes.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID int64
	Quantity  int32
	UnitPrice Money

	ProductImage *string

	CreatedAt time.Time
}
