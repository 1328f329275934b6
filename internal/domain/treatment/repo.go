package treatment

import (
	"context"

	"github.com/google/uuid"
)

type PlanRepository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	GetByClient(ctx context.Context, clientID uuid.UUID) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Plan, int, error)
}

type GoalRepository interface {
	Create(ctx context.Context, g *Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*Goal, error)
}

type ObjectiveRepository interface {
	Create(ctx context.Context, o *Objective) error
	GetByID(ctx context.Context, id uuid.UUID) (*Objective, error)
	Update(ctx context.Context, o *Objective) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByGoal(ctx context.Context, goalID uuid.UUID) ([]*Objective, error)
}

type ProgressRepository interface {
	Create(ctx context.Context, p *Progress) error
	ListByObjective(ctx context.Context, objectiveID uuid.UUID, limit, offset int) ([]*Progress, int, error)
}
