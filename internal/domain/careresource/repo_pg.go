package careresource

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

const resourceCols = `id, client_id, title, url, description, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.ClientID, &res.Title, &res.URL, &res.Description, &res.CreatedAt, &res.UpdatedAt)
	return &res, err
}

func (r *RepoPG) Create(ctx context.Context, res *Resource) error {
	const q = `
		INSERT INTO care_resource (client_id, title, url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, res.ClientID, res.Title, res.URL, res.Description).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *RepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	q := fmt.Sprintf("SELECT %s FROM care_resource WHERE id = $1", resourceCols)
	return scanResource(r.pool.QueryRow(ctx, q, id))
}

func (r *RepoPG) Update(ctx context.Context, res *Resource) error {
	const q = `
		UPDATE care_resource
		SET client_id = $2, title = $3, url = $4, description = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, res.ID, res.ClientID, res.Title, res.URL, res.Description).
		Scan(&res.UpdatedAt)
}

func (r *RepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM care_resource WHERE id = $1", id)
	return err
}

func (r *RepoPG) ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Resource, int, error) {
	const where = "client_id IS NULL OR client_id = $1"
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM care_resource WHERE "+where, clientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf("SELECT %s FROM care_resource WHERE %s ORDER BY created_at, id LIMIT $2 OFFSET $3", resourceCols, where)
	rows, err := r.pool.Query(ctx, q, clientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *RepoPG) ListAll(ctx context.Context, limit, offset int) ([]*Resource, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM care_resource").Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf("SELECT %s FROM care_resource ORDER BY created_at, id LIMIT $1 OFFSET $2", resourceCols)
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func collect(rows pgx.Rows, total int) ([]*Resource, int, error) {
	var items []*Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, res)
	}
	return items, total, rows.Err()
}
