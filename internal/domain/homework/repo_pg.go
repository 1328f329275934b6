package homework

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

const assignmentCols = `id, user_id, title, description, status, due_date, created_at, updated_at`

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Status, &a.DueDate, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *RepoPG) Create(ctx context.Context, a *Assignment) error {
	const q = `
		INSERT INTO homework (user_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.UserID, a.Title, a.Description, a.Status, a.DueDate).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	q := fmt.Sprintf("SELECT %s FROM homework WHERE id = $1", assignmentCols)
	return scanAssignment(r.pool.QueryRow(ctx, q, id))
}

func (r *RepoPG) Update(ctx context.Context, a *Assignment) error {
	const q = `
		UPDATE homework
		SET title = $2, description = $3, status = $4, due_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Description, a.Status, a.DueDate).
		Scan(&a.UpdatedAt)
}

func (r *RepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM homework WHERE id = $1", id)
	return err
}

func (r *RepoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Assignment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM homework WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM homework WHERE user_id = $1 ORDER BY due_date NULLS LAST, created_at, id LIMIT $2 OFFSET $3", assignmentCols)
	rows, err := r.pool.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
