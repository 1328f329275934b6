package journal

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

const entryCols = `id, user_id, title, content, is_shared, created_at, updated_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.IsShared, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *RepoPG) Create(ctx context.Context, e *Entry) error {
	const q = `
		INSERT INTO journal_entry (user_id, title, content, is_shared)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.UserID, e.Title, e.Content, e.IsShared).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	q := fmt.Sprintf("SELECT %s FROM journal_entry WHERE id = $1", entryCols)
	return scanEntry(r.pool.QueryRow(ctx, q, id))
}

func (r *RepoPG) Update(ctx context.Context, e *Entry) error {
	const q = `
		UPDATE journal_entry
		SET title = $2, content = $3, is_shared = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, e.ID, e.Title, e.Content, e.IsShared).Scan(&e.UpdatedAt)
}

func (r *RepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM journal_entry WHERE id = $1", id)
	return err
}

func (r *RepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, "user_id = $1", userID, limit, offset)
}

func (r *RepoPG) ListSharedByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return r.list(ctx, "user_id = $1 AND is_shared = TRUE", userID, limit, offset)
}

func (r *RepoPG) list(ctx context.Context, where string, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var total int
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM journal_entry WHERE %s", where)
	if err := r.pool.QueryRow(ctx, countQ, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM journal_entry WHERE %s ORDER BY created_at DESC, id LIMIT $2 OFFSET $3", entryCols, where)
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
