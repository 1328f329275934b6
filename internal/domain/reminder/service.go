package reminder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	reminders Repository
}

func NewService(reminders Repository) *Service {
	return &Service{reminders: reminders}
}

func (s *Service) Create(ctx context.Context, r *Reminder) error {
	if r.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if r.Message == "" {
		return fmt.Errorf("message is required")
	}
	if r.RemindAt.IsZero() {
		return fmt.Errorf("remind_at is required")
	}
	return s.reminders.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	return s.reminders.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Reminder) error {
	if r.Message == "" {
		return fmt.Errorf("message is required")
	}
	return s.reminders.Update(ctx, r)
}

// MarkSent flags a reminder as delivered. Sent is one-way.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID) (*Reminder, error) {
	r, err := s.reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Sent {
		return r, nil
	}
	r.Sent = true
	if err := s.reminders.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.reminders.Delete(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Reminder, int, error) {
	return s.reminders.ListByUser(ctx, userID, limit, offset)
}
