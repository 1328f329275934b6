package prompt

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	prompts Repository
}

func NewService(prompts Repository) *Service {
	return &Service{prompts: prompts}
}

func (s *Service) Create(ctx context.Context, p *Prompt) error {
	if p.Text == "" {
		return fmt.Errorf("text is required")
	}
	return s.prompts.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return s.prompts.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Prompt) error {
	if p.Text == "" {
		return fmt.Errorf("text is required")
	}
	return s.prompts.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.prompts.Delete(ctx, id)
}

func (s *Service) ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Prompt, int, error) {
	return s.prompts.ListVisible(ctx, clientID, limit, offset)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*Prompt, int, error) {
	return s.prompts.ListAll(ctx, limit, offset)
}
