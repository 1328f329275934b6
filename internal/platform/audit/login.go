package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoginAttempt is one authentication attempt, successful or not. Rows are
// write-once and retained for compliance.
type LoginAttempt struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	UserID        *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Success       bool       `db:"success" json:"success"`
	FailureReason string     `db:"failure_reason" json:"failure_reason,omitempty"`
	IPAddress     string     `db:"ip_address" json:"ip_address"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

type LoginAttemptRepoPG struct {
	pool *pgxpool.Pool
}

func NewLoginAttemptRepoPG(pool *pgxpool.Pool) *LoginAttemptRepoPG {
	return &LoginAttemptRepoPG{pool: pool}
}

func (r *LoginAttemptRepoPG) Record(ctx context.Context, a *LoginAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO login_attempt (email, user_id, success, failure_reason, ip_address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`
	return r.pool.QueryRow(ctx, q,
		a.Email, a.UserID, a.Success, a.FailureReason, a.IPAddress, a.CreatedAt,
	).Scan(&a.ID)
}

func (r *LoginAttemptRepoPG) ListByEmail(ctx context.Context, email string, limit, offset int) ([]*LoginAttempt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM login_attempt WHERE email = $1", email,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, email, user_id, success, failure_reason, ip_address, created_at
		FROM login_attempt WHERE email = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`, email, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*LoginAttempt
	for rows.Next() {
		var a LoginAttempt
		if err := rows.Scan(&a.ID, &a.Email, &a.UserID, &a.Success, &a.FailureReason, &a.IPAddress, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &a)
	}
	return items, total, rows.Err()
}
