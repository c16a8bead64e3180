package store

import (
	"context"
	"database/sql"
	"fmt"

	"pos-bot/internal/models"
)

// CreateSession opens a new sale session. The partial unique index on
// status='active' makes a second concurrent open fail here.
func (s *Store) CreateSession(ctx context.Context, startedBy int64) (*models.SaleSession, error) {
	var session models.SaleSession
	err := s.db.GetContext(ctx, &session, `
		INSERT INTO sale_sessions (started_by, status)
		VALUES ($1, $2)
		RETURNING *`,
		startedBy, models.SessionStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &session, nil
}

// GetActiveSession retrieves the currently active session, nil when none
func (s *Store) GetActiveSession(ctx context.Context) (*models.SaleSession, error) {
	var session models.SaleSession
	err := s.db.GetContext(ctx, &session,
		"SELECT * FROM sale_sessions WHERE status = $1 LIMIT 1", models.SessionStatusActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetLastEndedSession retrieves the most recently ended session, nil when none
func (s *Store) GetLastEndedSession(ctx context.Context) (*models.SaleSession, error) {
	var session models.SaleSession
	err := s.db.GetContext(ctx, &session, `
		SELECT * FROM sale_sessions
		WHERE status = $1
		ORDER BY ended_at DESC
		LIMIT 1`, models.SessionStatusEnded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession transitions a session active -> ended exactly once
func (s *Store) EndSession(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sale_sessions
		SET status = $1, ended_at = NOW()
		WHERE id = $2 AND status = $3`,
		models.SessionStatusEnded, id, models.SessionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to end session %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("active session not found: %d", id)
	}
	return nil
}

// GetSessionByID retrieves a session, nil when not found
func (s *Store) GetSessionByID(ctx context.Context, id int64) (*models.SaleSession, error) {
	var session models.SaleSession
	err := s.db.GetContext(ctx, &session,
		"SELECT * FROM sale_sessions WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListPastSessions retrieves sessions newest first with pagination
func (s *Store) ListPastSessions(ctx context.Context, limit, offset int) ([]models.SaleSession, error) {
	var sessions []models.SaleSession
	err := s.db.SelectContext(ctx, &sessions, `
		SELECT * FROM sale_sessions
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	return sessions, err
}

// AddInventoryLog records one starting-inventory entry for a session
func (s *Store) AddInventoryLog(ctx context.Context, sessionID int64, itemName string, quantity int, costPrice *float64) (*models.InventoryLog, error) {
	var entry models.InventoryLog
	err := s.db.GetContext(ctx, &entry, `
		INSERT INTO inventory_logs (session_id, item_name, quantity, cost_price)
		VALUES ($1, $2, $3, $4)
		RETURNING *`,
		sessionID, itemName, quantity, costPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to add inventory log: %w", err)
	}
	return &entry, nil
}

// ListInventoryBySession retrieves all inventory entries for a session
func (s *Store) ListInventoryBySession(ctx context.Context, sessionID int64) ([]models.InventoryLog, error) {
	var entries []models.InventoryLog
	err := s.db.SelectContext(ctx, &entries,
		"SELECT * FROM inventory_logs WHERE session_id = $1 ORDER BY id", sessionID)
	return entries, err
}
