// Package audit records every access to protected health information. Entries
// are append-only: nothing in this package updates or deletes a row.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

// Audit actions. view_all covers list reads; the rest map one-to-one onto the
// operation they document.
const (
	ActionView           = "view"
	ActionViewAll        = "view_all"
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionFailedLogin    = "failed_login"
	ActionSessionTimeout = "session_timeout"
)

// Entry is one immutable audit record: who did what to which resource, and
// whose data it was.
type Entry struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	ActorID      uuid.UUID  `db:"user_id" json:"user_id"`
	Action       string     `db:"action" json:"action"`
	ResourceType string     `db:"resource_type" json:"resource_type"`
	ResourceID   *uuid.UUID `db:"resource_id" json:"resource_id,omitempty"`
	TargetUserID *uuid.UUID `db:"target_user_id" json:"target_user_id,omitempty"`
	IPAddress    string     `db:"ip_address" json:"ip_address"`
	UserAgent    string     `db:"user_agent" json:"user_agent"`
	SessionID    string     `db:"session_id" json:"session_id"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// RequestInfo carries the caller's network origin and client agent, captured
// at call time and stored alongside each entry.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	SessionID string
}

// Capture extracts RequestInfo from an in-flight request.
func Capture(c echo.Context) RequestInfo {
	return RequestInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		SessionID: auth.SessionIDFromContext(c.Request().Context()),
	}
}

// Recorder persists audit entries. Isolated behind an interface so a durable
// queue can replace the direct insert without touching callers.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
}

// Service wraps a Recorder with the portal's fire-and-forget contract: a
// failed audit write is logged for operational visibility but never blocks or
// fails the operation it documents.
type Service struct {
	rec    Recorder
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{rec: repo, repo: repo, logger: logger}
}

// NewServiceWithRecorder builds a Service whose writes go through rec while
// reads still come from repo. Used by tests and by deployments that route
// writes through a queue.
func NewServiceWithRecorder(rec Recorder, repo Repository, logger zerolog.Logger) *Service {
	return &Service{rec: rec, repo: repo, logger: logger}
}

// Record persists an entry best-effort. Availability of the primary action
// takes precedence over audit durability.
func (s *Service) Record(ctx context.Context, e *Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.rec.Record(ctx, e); err != nil {
		s.logger.Error().Err(err).
			Str("action", e.Action).
			Str("resource_type", e.ResourceType).
			Str("actor_id", e.ActorID.String()).
			Msg("audit write failed")
	}
}

// RecordAccess is the common shape used by request handlers: one entry per
// distinct read or write of a subject's clinical data.
func (s *Service) RecordAccess(ctx context.Context, actorID uuid.UUID, action, resourceType string, resourceID, targetUserID *uuid.UUID, info RequestInfo) {
	s.Record(ctx, &Entry{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		TargetUserID: targetUserID,
		IPAddress:    info.IPAddress,
		UserAgent:    info.UserAgent,
		SessionID:    info.SessionID,
	})
}

// List returns audit entries for the therapist-facing trail.
func (s *Service) List(ctx context.Context, params map[string]string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, params, limit, offset)
}

// AccessRecord is one row of the client transparency view. Actor identity is
// abstracted: raw actor ids are never exposed to the client.
type AccessRecord struct {
	Actor        string    `json:"actor"` // "You" or "Healthcare Provider"
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// AccessHistory projects the audit trail scoped to the subject's own data.
func (s *Service) AccessHistory(ctx context.Context, subjectID uuid.UUID, limit, offset int) ([]*AccessRecord, int, error) {
	entries, total, err := s.repo.ListByTargetUser(ctx, subjectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	records := make([]*AccessRecord, 0, len(entries))
	for _, e := range entries {
		actor := "Healthcare Provider"
		if e.ActorID == subjectID {
			actor = "You"
		}
		records = append(records, &AccessRecord{
			Actor:        actor,
			Action:       e.Action,
			ResourceType: e.ResourceType,
			OccurredAt:   e.CreatedAt,
		})
	}
	return records, total, nil
}
