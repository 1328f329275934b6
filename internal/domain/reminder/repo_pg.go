package reminder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) *RepoPG {
	return &RepoPG{pool: pool}
}

const reminderCols = `id, user_id, message, remind_at, sent, created_at, updated_at`

func scanReminder(row pgx.Row) (*Reminder, error) {
	var rem Reminder
	err := row.Scan(&rem.ID, &rem.UserID, &rem.Message, &rem.RemindAt, &rem.Sent, &rem.CreatedAt, &rem.UpdatedAt)
	return &rem, err
}

func (r *RepoPG) Create(ctx context.Context, rem *Reminder) error {
	const q = `
		INSERT INTO reminder (user_id, message, remind_at, sent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, rem.UserID, rem.Message, rem.RemindAt, rem.Sent).
		Scan(&rem.ID, &rem.CreatedAt, &rem.UpdatedAt)
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	q := fmt.Sprintf("SELECT %s FROM reminder WHERE id = $1", reminderCols)
	return scanReminder(r.pool.QueryRow(ctx, q, id))
}

func (r *RepoPG) Update(ctx context.Context, rem *Reminder) error {
	const q = `
		UPDATE reminder
		SET message = $2, remind_at = $3, sent = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, rem.ID, rem.Message, rem.RemindAt, rem.Sent).Scan(&rem.UpdatedAt)
}

func (r *RepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM reminder WHERE id = $1", id)
	return err
}

func (r *RepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reminder, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reminder WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM reminder WHERE user_id = $1 ORDER BY remind_at, id LIMIT $2 OFFSET $3", reminderCols)
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rem)
	}
	return items, total, rows.Err()
}
