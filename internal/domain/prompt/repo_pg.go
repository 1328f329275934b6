package prompt

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

const promptCols = `id, client_id, text, category, created_at, updated_at`

func scanPrompt(row pgx.Row) (*Prompt, error) {
	var p Prompt
	err := row.Scan(&p.ID, &p.ClientID, &p.Text, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *RepoPG) Create(ctx context.Context, p *Prompt) error {
	const q = `
		INSERT INTO prompt (client_id, text, category)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.ClientID, p.Text, p.Category).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	q := fmt.Sprintf("SELECT %s FROM prompt WHERE id = $1", promptCols)
	return scanPrompt(r.pool.QueryRow(ctx, q, id))
}

func (r *RepoPG) Update(ctx context.Context, p *Prompt) error {
	const q = `
		UPDATE prompt
		SET client_id = $2, text = $3, category = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, p.ID, p.ClientID, p.Text, p.Category).Scan(&p.UpdatedAt)
}

func (r *RepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM prompt WHERE id = $1", id)
	return err
}

func (r *RepoPG) ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Prompt, int, error) {
	const where = "client_id IS NULL OR client_id = $1"
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM prompt WHERE "+where, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf("SELECT %s FROM prompt WHERE %s ORDER BY created_at, id LIMIT $2 OFFSET $3", promptCols, where)
	rows, err := r.pool.Query(ctx, q, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *RepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Prompt, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM prompt").Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf("SELECT %s FROM prompt ORDER BY created_at, id LIMIT $1 OFFSET $2", promptCols)
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Prompt, int, error) {
	var items []*Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
