package policy

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

// ErrNoPlan is returned by a TreatmentSource when a client has no plan.
var ErrNoPlan = errors.New("no treatment plan for client")

// TreatmentSource is the minimal read surface the ownership-chain resolver
// needs. The treatment repository implements it; tests substitute a map.
type TreatmentSource interface {
	PlanIDForClient(ctx context.Context, clientID uuid.UUID) (uuid.UUID, error)
	GoalIDsForPlan(ctx context.Context, planID uuid.UUID) ([]uuid.UUID, error)
	ObjectiveIDsForGoal(ctx context.Context, goalID uuid.UUID) ([]uuid.UUID, error)
}

// ChainResolver authorizes access to goals and objectives, which carry no
// direct foreign key to a client. A client's claim is verified by walking
// their own plan: plan -> goals -> objectives, a linear scan bounded by the
// size of that one plan.
type ChainResolver struct {
	src TreatmentSource
}

func NewChainResolver(src TreatmentSource) *ChainResolver {
	return &ChainResolver{src: src}
}

// CanReadGoal allows any therapist; a client only when the goal belongs to
// their own plan. A missing plan or goal resolves to a denial, never an error,
// so nonexistence is indistinguishable from another client's data.
func (r *ChainResolver) CanReadGoal(ctx context.Context, role string, actorID, goalID uuid.UUID) (Decision, error) {
	if auth.IsTherapistRole(role) {
		return Allow(), nil
	}
	planID, err := r.src.PlanIDForClient(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrNoPlan) {
			return Deny("caller has no treatment plan"), nil
		}
		return Decision{}, err
	}
	goalIDs, err := r.src.GoalIDsForPlan(ctx, planID)
	if err != nil {
		return Decision{}, err
	}
	for _, id := range goalIDs {
		if id == goalID {
			return Allow(), nil
		}
	}
	return Deny("goal is not part of the caller's plan"), nil
}

// CanReadObjective allows any therapist; a client only when the objective
// hangs off a goal in their own plan.
func (r *ChainResolver) CanReadObjective(ctx context.Context, role string, actorID, objectiveID uuid.UUID) (Decision, error) {
	if auth.IsTherapistRole(role) {
		return Allow(), nil
	}
	planID, err := r.src.PlanIDForClient(ctx, actorID)
	if err != nil {
		if errors.Is(err, ErrNoPlan) {
			return Deny("caller has no treatment plan"), nil
		}
		return Decision{}, err
	}
	goalIDs, err := r.src.GoalIDsForPlan(ctx, planID)
	if err != nil {
		return Decision{}, err
	}
	for _, gid := range goalIDs {
		objIDs, err := r.src.ObjectiveIDsForGoal(ctx, gid)
		if err != nil {
			return Decision{}, err
		}
		for _, id := range objIDs {
			if id == objectiveID {
				return Allow(), nil
			}
		}
	}
	return Deny("objective is not part of the caller's plan"), nil
}
