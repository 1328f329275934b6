package homework

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validStatuses = map[string]bool{
	StatusAssigned: true, StatusInProgress: true, StatusCompleted: true,
}

// validTransitions encodes the forward-only status lifecycle.
var validTransitions = map[string]map[string]bool{
	StatusAssigned:   {StatusInProgress: true, StatusCompleted: true},
	StatusInProgress: {StatusCompleted: true},
	StatusCompleted:  {},
}

type Service struct {
	assignments Repository
}

func NewService(assignments Repository) *Service {
	return &Service{assignments: assignments}
}

func (s *Service) Create(ctx context.Context, a *Assignment) error {
	if a.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if a.Status == "" {
		a.Status = StatusAssigned
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.assignments.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return s.assignments.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Assignment) error {
	if a.Title == "" {
		return fmt.Errorf("title is required")
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.assignments.Update(ctx, a)
}

// UpdateStatus advances an assignment through its lifecycle. Backward moves
// and repeats are rejected.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Assignment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !validTransitions[a.Status][status] {
		return nil, fmt.Errorf("cannot move homework from %s to %s", a.Status, status)
	}
	a.Status = status
	if err := s.assignments.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.assignments.Delete(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Assignment, int, error) {
	return s.assignments.ListByUser(ctx, userID, limit, offset)
}
