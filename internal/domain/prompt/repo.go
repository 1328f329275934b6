package prompt

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prompt) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Update(ctx context.Context, p *Prompt) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListVisible returns global prompts plus those scoped to clientID, in a
	// stable order.
	ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Prompt, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Prompt, int, error)
}
