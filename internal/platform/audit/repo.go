package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence surface for audit entries. Insert-only plus
// two read paths: the therapist trail and the per-subject transparency view.
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error)
	ListByTargetUser(ctx context.Context, targetUserID uuid.UUID, limit, offset int) ([]*Entry, int, error)
}

// LoginAttemptRepository persists append-only authentication attempts.
type LoginAttemptRepository interface {
	Record(ctx context.Context, a *LoginAttempt) error
	ListByEmail(ctx context.Context, email string, limit, offset int) ([]*LoginAttempt, int, error)
}

// DisclosureRepository persists append-only disclosure records.
type DisclosureRepository interface {
	Record(ctx context.Context, d *Disclosure) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Disclosure, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Disclosure, int, error)
}
