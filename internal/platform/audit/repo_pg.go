package audit

import (
	"context"
	"fmt"
	"strings"

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

const auditCols = `id, user_id, action, resource_type, resource_id, target_user_id,
	ip_address, user_agent, session_id, created_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID, &e.ActorID, &e.Action, &e.ResourceType, &e.ResourceID, &e.TargetUserID,
		&e.IPAddress, &e.UserAgent, &e.SessionID, &e.CreatedAt,
	)
	return &e, err
}

func (r *RepoPG) Record(ctx context.Context, e *Entry) error {
	const q = `
		INSERT INTO audit_log (
			user_id, action, resource_type, resource_id, target_user_id,
			ip_address, user_agent, session_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id`
	return r.pool.QueryRow(ctx, q,
		e.ActorID, e.Action, e.ResourceType, e.ResourceID, e.TargetUserID,
		e.IPAddress, e.UserAgent, e.SessionID, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *RepoPG) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	where := []string{}
	args := []interface{}{}
	idx := 1

	if v, ok := params["action"]; ok {
		where = append(where, fmt.Sprintf("action = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["resource_type"]; ok {
		where = append(where, fmt.Sprintf("resource_type = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["actor_id"]; ok {
		where = append(where, fmt.Sprintf("user_id = $%d", idx))
		args = append(args, v)
		idx++
	}
	if v, ok := params["target_user_id"]; ok {
		where = append(where, fmt.Sprintf("target_user_id = $%d", idx))
		args = append(args, v)
		idx++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	countQ := fmt.Sprintf("SELECT COUNT(*) FROM audit_log %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM audit_log %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d",
		auditCols, whereClause, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
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

func (r *RepoPG) ListByTargetUser(ctx context.Context, targetUserID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM audit_log WHERE target_user_id = $1", targetUserID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := fmt.Sprintf("SELECT %s FROM audit_log WHERE target_user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3", auditCols)
	rows, err := r.pool.Query(ctx, q, targetUserID, limit, offset)
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
