package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	entries Repository
}

func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

func (s *Service) Create(ctx context.Context, e *Entry) error {
	if e.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required")
	}
	if e.Content == "" {
		return fmt.Errorf("content is required")
	}
	return s.entries.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.entries.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Entry) error {
	if e.Content == "" {
		return fmt.Errorf("content is required")
	}
	return s.entries.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.entries.Delete(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.entries.ListByUser(ctx, userID, limit, offset)
}

// ListShared returns only the entries the owner has flagged shared. This is
// the sole list a non-owner may ever see.
func (s *Service) ListShared(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return s.entries.ListSharedByUser(ctx, userID, limit, offset)
}
