package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/naturburst/naturburst.com-sub000/internal/models"
)

// CreateOrder persists the checkout snapshot header.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (session_id, currency, total_items, total_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, order, query,
		order.SessionID, order.Currency, order.TotalItems, order.TotalAmount)
}

// CreateOrderItem persists one snapshotted cart line.
func (s *Store) CreateOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, variant_id, name, slug, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	return s.db.GetContext(ctx, &item.ID, query,
		item.OrderID, item.ProductID, item.VariantID, item.Name, item.Slug, item.UnitPrice, item.Amount)
}

// GetOrderByID retrieves an order by ID.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves all items for an order.
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1", orderID)
	return items, err
}

// GetOrdersBySessionID retrieves a session's checkout history, newest first.
func (s *Store) GetOrdersBySessionID(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE session_id = $1 ORDER BY created_at DESC", sessionID)
	return orders, err
}
