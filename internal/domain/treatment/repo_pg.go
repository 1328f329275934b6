package treatment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
)

// -- Plans --

type PlanRepoPG struct {
	pool *pgxpool.Pool
}

func NewPlanRepoPG(pool *pgxpool.Pool) *PlanRepoPG {
	return &PlanRepoPG{pool: pool}
}

const planCols = `id, client_id, title, summary, created_at, updated_at`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.ClientID, &p.Title, &p.Summary, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *PlanRepoPG) Create(ctx context.Context, p *Plan) error {
	const q = `
		INSERT INTO treatment_plan (client_id, title, summary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.ClientID, p.Title, p.Summary).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PlanRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_plan WHERE id = $1", planCols)
	return scanPlan(r.pool.QueryRow(ctx, q, id))
}

func (r *PlanRepoPG) GetByClient(ctx context.Context, clientID uuid.UUID) (*Plan, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_plan WHERE client_id = $1", planCols)
	return scanPlan(r.pool.QueryRow(ctx, q, clientID))
}

func (r *PlanRepoPG) Update(ctx context.Context, p *Plan) error {
	const q = `
		UPDATE treatment_plan
		SET title = $2, summary = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, p.ID, p.Title, p.Summary).Scan(&p.UpdatedAt)
}

func (r *PlanRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM treatment_plan WHERE id = $1", id)
	return err
}

func (r *PlanRepoPG) List(ctx context.Context, limit, offset int) ([]*Plan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM treatment_plan").Scan(&total); err != nil {
		return nil, 0, err
	}
	q := fmt.Sprintf("SELECT %s FROM treatment_plan ORDER BY created_at, id LIMIT $1 OFFSET $2", planCols)
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// -- Goals --

type GoalRepoPG struct {
	pool *pgxpool.Pool
}

func NewGoalRepoPG(pool *pgxpool.Pool) *GoalRepoPG {
	return &GoalRepoPG{pool: pool}
}

const goalCols = `id, plan_id, description, status, sort_order, created_at, updated_at`

func scanGoal(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.PlanID, &g.Description, &g.Status, &g.SortOrder, &g.CreatedAt, &g.UpdatedAt)
	return &g, err
}

func (r *GoalRepoPG) Create(ctx context.Context, g *Goal) error {
	const q = `
		INSERT INTO treatment_goal (plan_id, description, status, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, g.PlanID, g.Description, g.Status, g.SortOrder).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (r *GoalRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Goal, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_goal WHERE id = $1", goalCols)
	return scanGoal(r.pool.QueryRow(ctx, q, id))
}

func (r *GoalRepoPG) Update(ctx context.Context, g *Goal) error {
	const q = `
		UPDATE treatment_goal
		SET description = $2, status = $3, sort_order = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, g.ID, g.Description, g.Status, g.SortOrder).Scan(&g.UpdatedAt)
}

func (r *GoalRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM treatment_goal WHERE id = $1", id)
	return err
}

func (r *GoalRepoPG) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*Goal, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_goal WHERE plan_id = $1 ORDER BY sort_order, created_at", goalCols)
	rows, err := r.pool.Query(ctx, q, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// -- Objectives --

type ObjectiveRepoPG struct {
	pool *pgxpool.Pool
}

func NewObjectiveRepoPG(pool *pgxpool.Pool) *ObjectiveRepoPG {
	return &ObjectiveRepoPG{pool: pool}
}

const objectiveCols = `id, goal_id, description, status, sort_order, created_at, updated_at`

func scanObjective(row pgx.Row) (*Objective, error) {
	var o Objective
	err := row.Scan(&o.ID, &o.GoalID, &o.Description, &o.Status, &o.SortOrder, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *ObjectiveRepoPG) Create(ctx context.Context, o *Objective) error {
	const q = `
		INSERT INTO treatment_objective (goal_id, description, status, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, o.GoalID, o.Description, o.Status, o.SortOrder).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *ObjectiveRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Objective, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_objective WHERE id = $1", objectiveCols)
	return scanObjective(r.pool.QueryRow(ctx, q, id))
}

func (r *ObjectiveRepoPG) Update(ctx context.Context, o *Objective) error {
	const q = `
		UPDATE treatment_objective
		SET description = $2, status = $3, sort_order = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, o.ID, o.Description, o.Status, o.SortOrder).Scan(&o.UpdatedAt)
}

func (r *ObjectiveRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM treatment_objective WHERE id = $1", id)
	return err
}

func (r *ObjectiveRepoPG) ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*Objective, error) {
	q := fmt.Sprintf("SELECT %s FROM treatment_objective WHERE goal_id = $1 ORDER BY sort_order, created_at", objectiveCols)
	rows, err := r.pool.Query(ctx, q, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

// -- Progress --

type ProgressRepoPG struct {
	pool *pgxpool.Pool
}

func NewProgressRepoPG(pool *pgxpool.Pool) *ProgressRepoPG {
	return &ProgressRepoPG{pool: pool}
}

func (r *ProgressRepoPG) Create(ctx context.Context, p *Progress) error {
	const q = `
		INSERT INTO treatment_progress (objective_id, progress_level, note, recorded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, p.ObjectiveID, p.ProgressLevel, p.Note, p.RecordedBy).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *ProgressRepoPG) ListByObjective(ctx context.Context, objectiveID uuid.UUID, limit, offset int) ([]*Progress, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM treatment_progress WHERE objective_id = $1", objectiveID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = `
		SELECT id, objective_id, progress_level, note, recorded_by, created_at
		FROM treatment_progress
		WHERE objective_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, objectiveID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Progress
	for rows.Next() {
		var p Progress
		if err := rows.Scan(&p.ID, &p.ObjectiveID, &p.ProgressLevel, &p.Note, &p.RecordedBy, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

// -- Ownership-chain source --

// SourcePG serves the minimal id lookups the chain resolver walks.
type SourcePG struct {
	pool *pgxpool.Pool
}

func NewSourcePG(pool *pgxpool.Pool) *SourcePG {
	return &SourcePG{pool: pool}
}

func (s *SourcePG) PlanIDForClient(ctx context.Context, clientID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, "SELECT id FROM treatment_plan WHERE client_id = $1", clientID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, policy.ErrNoPlan
	}
	return id, err
}

func (s *SourcePG) GoalIDsForPlan(ctx context.Context, planID uuid.UUID) ([]uuid.UUID, error) {
	return s.ids(ctx, "SELECT id FROM treatment_goal WHERE plan_id = $1", planID)
}

func (s *SourcePG) ObjectiveIDsForGoal(ctx context.Context, goalID uuid.UUID) ([]uuid.UUID, error) {
	return s.ids(ctx, "SELECT id FROM treatment_objective WHERE goal_id = $1", goalID)
}

func (s *SourcePG) ids(ctx context.Context, q string, arg uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
