package session

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StorePG struct {
	pool *pgxpool.Pool
}

func NewStorePG(pool *pgxpool.Pool) *StorePG {
	return &StorePG{pool: pool}
}

func (s *StorePG) Get(ctx context.Context, sessionID string) (*Activity, error) {
	var a Activity
	err := s.pool.QueryRow(ctx,
		"SELECT session_id, user_id, last_activity FROM session_activity WHERE session_id = $1",
		sessionID,
	).Scan(&a.SessionID, &a.UserID, &a.LastActivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert writes the row keeping last_activity monotonically non-decreasing,
// so two racing requests cannot move the session backwards in time.
func (s *StorePG) Upsert(ctx context.Context, a *Activity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO session_activity (session_id, user_id, last_activity)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE
		SET last_activity = GREATEST(session_activity.last_activity, EXCLUDED.last_activity)`,
		a.SessionID, a.UserID, a.LastActivity)
	return err
}

func (s *StorePG) Delete(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM session_activity WHERE session_id = $1", sessionID)
	return err
}
