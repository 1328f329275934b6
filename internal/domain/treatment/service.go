package treatment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validGoalStatuses = map[string]bool{
	GoalInProgress: true, GoalAchieved: true, GoalDiscontinued: true,
}

var validObjectiveStatuses = map[string]bool{
	ObjectiveNotStarted: true, ObjectiveInProgress: true, ObjectiveCompleted: true,
}

type Service struct {
	plans      PlanRepository
	goals      GoalRepository
	objectives ObjectiveRepository
	progress   ProgressRepository
}

func NewService(plans PlanRepository, goals GoalRepository, objectives ObjectiveRepository, progress ProgressRepository) *Service {
	return &Service{plans: plans, goals: goals, objectives: objectives, progress: progress}
}

// -- Plans --

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if p.ClientID == uuid.Nil {
		return fmt.Errorf("client_id is required")
	}
	// One plan per client; the unique index backs this up.
	if _, err := s.plans.GetByClient(ctx, p.ClientID); err == nil {
		return fmt.Errorf("client already has a treatment plan")
	}
	return s.plans.Create(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *Service) GetPlanByClient(ctx context.Context, clientID uuid.UUID) (*Plan, error) {
	return s.plans.GetByClient(ctx, clientID)
}

func (s *Service) UpdatePlan(ctx context.Context, p *Plan) error {
	return s.plans.Update(ctx, p)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.plans.Delete(ctx, id)
}

func (s *Service) ListPlans(ctx context.Context, limit, offset int) ([]*Plan, int, error) {
	return s.plans.List(ctx, limit, offset)
}

// -- Goals --

func (s *Service) CreateGoal(ctx context.Context, g *Goal) error {
	if g.PlanID == uuid.Nil {
		return fmt.Errorf("plan_id is required")
	}
	if g.Description == "" {
		return fmt.Errorf("description is required")
	}
	if g.Status == "" {
		g.Status = GoalInProgress
	}
	if !validGoalStatuses[g.Status] {
		return fmt.Errorf("invalid status: %s", g.Status)
	}
	if _, err := s.plans.GetByID(ctx, g.PlanID); err != nil {
		return fmt.Errorf("plan not found")
	}
	return s.goals.Create(ctx, g)
}

func (s *Service) GetGoal(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return s.goals.GetByID(ctx, id)
}

func (s *Service) UpdateGoal(ctx context.Context, g *Goal) error {
	if g.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !validGoalStatuses[g.Status] {
		return fmt.Errorf("invalid status: %s", g.Status)
	}
	return s.goals.Update(ctx, g)
}

func (s *Service) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return s.goals.Delete(ctx, id)
}

func (s *Service) ListGoals(ctx context.Context, planID uuid.UUID) ([]*Goal, error) {
	return s.goals.ListByPlan(ctx, planID)
}

// -- Objectives --

func (s *Service) CreateObjective(ctx context.Context, o *Objective) error {
	if o.GoalID == uuid.Nil {
		return fmt.Errorf("goal_id is required")
	}
	if o.Description == "" {
		return fmt.Errorf("description is required")
	}
	if o.Status == "" {
		o.Status = ObjectiveNotStarted
	}
	if !validObjectiveStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	if _, err := s.goals.GetByID(ctx, o.GoalID); err != nil {
		return fmt.Errorf("goal not found")
	}
	return s.objectives.Create(ctx, o)
}

func (s *Service) GetObjective(ctx context.Context, id uuid.UUID) (*Objective, error) {
	return s.objectives.GetByID(ctx, id)
}

func (s *Service) UpdateObjective(ctx context.Context, o *Objective) error {
	if o.Description == "" {
		return fmt.Errorf("description is required")
	}
	if !validObjectiveStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	return s.objectives.Update(ctx, o)
}

func (s *Service) DeleteObjective(ctx context.Context, id uuid.UUID) error {
	return s.objectives.Delete(ctx, id)
}

func (s *Service) ListObjectives(ctx context.Context, goalID uuid.UUID) ([]*Objective, error) {
	return s.objectives.ListByGoal(ctx, goalID)
}

// -- Progress --

func (s *Service) RecordProgress(ctx context.Context, p *Progress) error {
	if p.ObjectiveID == uuid.Nil {
		return fmt.Errorf("objective_id is required")
	}
	if p.ProgressLevel < 0 || p.ProgressLevel > 100 {
		return fmt.Errorf("progress_level must be between 0 and 100")
	}
	if _, err := s.objectives.GetByID(ctx, p.ObjectiveID); err != nil {
		return fmt.Errorf("objective not found")
	}
	return s.progress.Create(ctx, p)
}

func (s *Service) ListProgress(ctx context.Context, objectiveID uuid.UUID, limit, offset int) ([]*Progress, int, error) {
	return s.progress.ListByObjective(ctx, objectiveID, limit, offset)
}
