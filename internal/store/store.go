package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-bot/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// IsAuthorized reports whether a telegram ID may operate the bot
func (s *Store) IsAuthorized(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM authorized_users WHERE telegram_id = $1)", telegramID)
	return exists, err
}

// UpsertUserInfo refreshes a user's handle and name, keeping existing
// values when the new ones are empty
func (s *Store) UpsertUserInfo(ctx context.Context, telegramID int64, username, fullName string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE authorized_users
		SET username  = COALESCE(NULLIF($2, ''), username),
		    full_name = COALESCE(NULLIF($3, ''), full_name)
		WHERE telegram_id = $1`,
		telegramID, username, fullName)
	return err
}

// GetUser retrieves an authorized user, nil when not found
func (s *Store) GetUser(ctx context.Context, telegramID int64) (*models.AuthorizedUser, error) {
	var user models.AuthorizedUser
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM authorized_users WHERE telegram_id = $1", telegramID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListAuthorizedUsers retrieves all authorized users, newest first
func (s *Store) ListAuthorizedUsers(ctx context.Context) ([]models.AuthorizedUser, error) {
	var users []models.AuthorizedUser
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM authorized_users ORDER BY created_at DESC")
	return users, err
}

// AddAuthorizedUser grants access to a telegram ID
func (s *Store) AddAuthorizedUser(ctx context.Context, telegramID int64, username, fullName *string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO authorized_users (telegram_id, username, full_name) VALUES ($1, $2, $3)",
		telegramID, username, fullName)
	if err != nil {
		return fmt.Errorf("failed to add authorized user %d: %w", telegramID, err)
	}
	return nil
}

// DeleteAuthorizedUser revokes access immediately
func (s *Store) DeleteAuthorizedUser(ctx context.Context, telegramID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM authorized_users WHERE telegram_id = $1", telegramID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %d", telegramID)
	}
	return nil
}

// ListMenuItems retrieves menu items in display order
func (s *Store) ListMenuItems(ctx context.Context, activeOnly bool) ([]models.MenuItem, error) {
	query := "SELECT * FROM menu_items ORDER BY display_order, id"
	if activeOnly {
		query = "SELECT * FROM menu_items WHERE active ORDER BY display_order, id"
	}

	var items []models.MenuItem
	err := s.db.SelectContext(ctx, &items, query)
	return items, err
}

// GetMenuItemByID retrieves a single menu item, nil when not found
func (s *Store) GetMenuItemByID(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM menu_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddMenuItem inserts a menu item at the end of the display order
func (s *Store) AddMenuItem(ctx context.Context, name, size string, price float64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.GetContext(ctx, &item, `
		INSERT INTO menu_items (name, size, price, display_order)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(display_order), 0) + 1 FROM menu_items))
		RETURNING *`,
		name, size, price)
	if err != nil {
		return nil, fmt.Errorf("failed to add menu item: %w", err)
	}
	return &item, nil
}

// UpdateMenuItemName updates the name of a menu item
func (s *Store) UpdateMenuItemName(ctx context.Context, id int64, name string) error {
	return s.updateMenuItemColumn(ctx, id, "name", name)
}

// UpdateMenuItemSize updates the size label of a menu item
func (s *Store) UpdateMenuItemSize(ctx context.Context, id int64, size string) error {
	return s.updateMenuItemColumn(ctx, id, "size", size)
}

// UpdateMenuItemPrice updates the price of a menu item
func (s *Store) UpdateMenuItemPrice(ctx context.Context, id int64, price float64) error {
	return s.updateMenuItemColumn(ctx, id, "price", price)
}

func (s *Store) updateMenuItemColumn(ctx context.Context, id int64, column string, value interface{}) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE menu_items SET %s = $1 WHERE id = $2", column), value, id)
	if err != nil {
		return fmt.Errorf("failed to update menu item %s: %w", column, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item not found: %d", id)
	}
	return nil
}

// SoftDeleteMenuItem marks an item inactive, preserving historical orders
func (s *Store) SoftDeleteMenuItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE menu_items SET active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("menu item not found: %d", id)
	}
	return nil
}
