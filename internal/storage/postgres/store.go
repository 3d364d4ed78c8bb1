package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/askrobots/intakebot/internal/conversation"
)

// Store persists conversation records in PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var (
	_ conversation.Store       = (*Store)(nil)
	_ conversation.StatsReader = (*Store)(nil)
)

// NewStore wraps an established database connection.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// FindLatest returns the most recent record for the user, or (nil, nil) when none exists.
func (s *Store) FindLatest(ctx context.Context, userID int64) (*conversation.Record, error) {
	const q = `
		SELECT id, user_id, query, response, state, created_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1`

	var rec conversation.Record
	if err := s.db.GetContext(ctx, &rec, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest record for user %d: %w", userID, err)
	}
	return &rec, nil
}

// Append inserts a new record and fills in its generated id and timestamp.
func (s *Store) Append(ctx context.Context, rec *conversation.Record) error {
	const q = `
		INSERT INTO conversations (user_id, query, response, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	row := s.db.QueryRowxContext(ctx, q, rec.UserID, rec.Query, rec.Response, rec.State)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("append record for user %d: %w", rec.UserID, err)
	}
	return nil
}

// Stats returns aggregate counters over all stored exchanges.
func (s *Store) Stats(ctx context.Context) (conversation.Stats, error) {
	const q = `
		SELECT COUNT(*) AS exchanges, COUNT(DISTINCT user_id) AS users
		FROM conversations`

	var st conversation.Stats
	if err := s.db.GetContext(ctx, &st, q); err != nil {
		return conversation.Stats{}, fmt.Errorf("load conversation stats: %w", err)
	}
	return st, nil
}
