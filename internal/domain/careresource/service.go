package careresource

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	resources Repository
}

func NewService(resources Repository) *Service {
	return &Service{resources: resources}
}

func (s *Service) Create(ctx context.Context, r *Resource) error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.resources.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Resource, error) {
	return s.resources.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Resource) error {
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.resources.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.resources.Delete(ctx, id)
}

func (s *Service) ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Resource, int, error) {
	return s.resources.ListVisible(ctx, clientID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*Resource, int, error) {
	return s.resources.ListAll(ctx, limit, offset)
}
