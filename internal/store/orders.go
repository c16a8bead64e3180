package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-bot/internal/models"
)

// CreateOrder persists an order with its line items in one transaction.
// The session row is locked so order numbers are assigned strictly
// increasing within a session, and the session total is maintained in the
// same transaction.
func (s *Store) CreateOrder(ctx context.Context, sessionID int64, lines []*models.CartLine, total float64, paymentMethod string, createdBy int64) (*models.Order, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status,
		"SELECT status FROM sale_sessions WHERE id = $1 FOR UPDATE", sessionID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session not found: %d", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	if status != models.SessionStatusActive {
		return nil, fmt.Errorf("session %d is not active", sessionID)
	}

	var orderNumber int
	err = tx.GetContext(ctx, &orderNumber,
		"SELECT COALESCE(MAX(order_number), 0) + 1 FROM orders WHERE session_id = $1", sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign order number: %w", err)
	}

	var order models.Order
	err = tx.GetContext(ctx, &order, `
		INSERT INTO orders (session_id, order_number, total_amount, payment_method, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *`,
		sessionID, orderNumber, total, paymentMethod, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, size, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, line.MenuItemID, line.Name, line.Size, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE sale_sessions SET total_sales = total_sales + $1 WHERE id = $2",
		total, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update session total: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersBySession retrieves orders in order-number sequence with pagination
func (s *Store) ListOrdersBySession(ctx context.Context, sessionID int64, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, `
		SELECT * FROM orders
		WHERE session_id = $1
		ORDER BY order_number
		LIMIT $2 OFFSET $3`, sessionID, limit, offset)
	return orders, err
}

// GetOrderByID retrieves an order, nil when not found
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves the line items for an order
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// DeleteOrder removes an order and its lines, rolling its amount out of
// the session total in the same transaction
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE sale_sessions SET total_sales = total_sales - $1 WHERE id = $2",
		order.TotalAmount, order.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session total: %w", err)
	}

	return tx.Commit()
}

// CountOrdersBySession returns the number of orders in a session
func (s *Store) CountOrdersBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE session_id = $1", sessionID)
	return count, err
}
