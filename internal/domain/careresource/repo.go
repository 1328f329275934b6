package careresource

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	Update(ctx context.Context, r *Resource) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListVisible(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Resource, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Resource, int, error)
}
