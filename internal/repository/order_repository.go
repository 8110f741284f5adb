package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/currency"

	"github.com/andrepsousa/AdegaDigital/internal/domain"
	"github.com/andrepsousa/AdegaDigital/internal/port"
)

type orderRepository struct {
	db DBTX
}

func newOrderRepository(db DBTX) port.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, owner_id, status, total_amount, total_currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID,
		order.OwnerID,
		order.Status.String(),
		order.Total.Amount,
		order.Total.Currency.String(),
		order.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]

		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		item.CreatedAt = order.CreatedAt

		_, err := r.db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, quantity, unit_price_amount, unit_price_currency, product_image, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID,
			item.OrderID,
			i,
			item.ProductID,
			item.Quantity,
			item.UnitPrice.Amount,
			item.UnitPrice.Currency.String(),
			item.ProductImage,
			item.CreatedAt,
		)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert order item for product %d: %w", item.ProductID, err)
		}
	}

	return order, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, owner_id, status, total_amount, total_currency, created_at
		FROM orders
		WHERE id = $1`,
		id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, fmt.Errorf("%w: order %s", domain.ErrOrderNotFound, id)
		}
		return domain.Order{}, fmt.Errorf("scanOrder: %w", err)
	}

	items, err := r.orderItems(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orderItems: %w", err)
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) OrdersByOwner(ctx context.Context, ownerID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, status, total_amount, total_currency, created_at
		FROM orders
		WHERE owner_id = $1
		ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		order.Items = make([]domain.OrderItem, 0)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders for owner %d: %w", ownerID, err)
	}

	for i := range orders {
		items, err := r.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("orderItems: %w", err)
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) orderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price_amount, unit_price_currency, product_image, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var (
			item         domain.OrderItem
			currencyCode string
		)

		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Quantity,
			&item.UnitPrice.Amount,
			&currencyCode,
			&item.ProductImage,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}

		item.UnitPrice.Currency, err = currency.ParseISO(currencyCode)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		order        domain.Order
		status       string
		currencyCode string
	)

	err := row.Scan(
		&order.ID,
		&order.OwnerID,
		&status,
		&order.Total.Amount,
		&currencyCode,
		&order.CreatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	order.Status = domain.OrderStatus(status)

	order.Total.Currency, err = currency.ParseISO(currencyCode)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}

	return order, nil
}
