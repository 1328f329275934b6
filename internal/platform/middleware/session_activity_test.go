package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/session"
)

type memSessionStore struct{ rows map[string]*session.Activity }

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{rows: make(map[string]*session.Activity)}
}
func (s *memSessionStore) Get(_ context.Context, id string) (*session.Activity, error) {
	a, ok := s.rows[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *a
	return &cp, nil
}
func (s *memSessionStore) Upsert(_ context.Context, a *session.Activity) error {
	cp := *a
	s.rows[a.SessionID] = &cp
	return nil
}
func (s *memSessionStore) Delete(_ context.Context, id string) error {
	delete(s.rows, id)
	return nil
}

type memAuditRepo struct{ entries []*audit.Entry }

func (m *memAuditRepo) Record(_ context.Context, e *audit.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}
func (m *memAuditRepo) List(_ context.Context, _ map[string]string, _, _ int) ([]*audit.Entry, int, error) {
	return m.entries, len(m.entries), nil
}
func (m *memAuditRepo) ListByTargetUser(_ context.Context, _ uuid.UUID, _, _ int) ([]*audit.Entry, int, error) {
	return nil, 0, nil
}

func sessionRequest(e *echo.Echo, userID uuid.UUID, sessionID string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journals", nil)
	if sessionID != "" {
		ctx := auth.WithPrincipal(req.Context(), userID.String(), "client", sessionID)
		req = req.WithContext(ctx)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestSessionActivity_ExpiredSessionRejectedAndAudited(t *testing.T) {
	store := newMemSessionStore()
	sink := &memAuditRepo{}
	monitor := session.NewMonitor(store, 30*time.Minute)

	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := t0
	monitor.SetClock(func() time.Time { return now })

	e := echo.New()
	called := 0
	handler := SessionActivity(monitor, audit.NewService(sink, zerolog.Nop()))(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusOK)
	})

	userID := uuid.New()
	if err := handler(sessionRequest(e, userID, "sess-1")); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if called != 1 {
		t.Fatalf("expected handler reached on fresh session, called=%d", called)
	}

	now = t0.Add(31 * time.Minute)
	err := handler(sessionRequest(e, userID, "sess-1"))
	if err == nil {
		t.Fatal("expected idle session past the timeout to be rejected")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", httpErr.Code)
	}
	if httpErr.Message != "session expired" {
		t.Errorf("expected distinguishing message %q, got %v", "session expired", httpErr.Message)
	}
	if called != 1 {
		t.Errorf("expected handler not reached after expiry, called=%d", called)
	}

	var timeouts []*audit.Entry
	for _, entry := range sink.entries {
		if entry.Action == audit.ActionSessionTimeout {
			timeouts = append(timeouts, entry)
		}
	}
	if len(timeouts) != 1 {
		t.Fatalf("expected exactly one session_timeout entry, got %d", len(timeouts))
	}
	if timeouts[0].ActorID != userID {
		t.Errorf("timeout entry actor = %s, want %s", timeouts[0].ActorID, userID)
	}
	if _, ok := store.rows["sess-1"]; ok {
		t.Error("expected expired session row to be removed")
	}
}

func TestSessionActivity_ActiveSessionExtendsWithoutAudit(t *testing.T) {
	store := newMemSessionStore()
	sink := &memAuditRepo{}
	monitor := session.NewMonitor(store, 30*time.Minute)

	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now := t0
	monitor.SetClock(func() time.Time { return now })

	e := echo.New()
	handler := SessionActivity(monitor, audit.NewService(sink, zerolog.Nop()))(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	userID := uuid.New()
	if err := handler(sessionRequest(e, userID, "sess-1")); err != nil {
		t.Fatalf("first request: %v", err)
	}

	now = t0.Add(29 * time.Minute)
	if err := handler(sessionRequest(e, userID, "sess-1")); err != nil {
		t.Fatalf("request within the idle window: %v", err)
	}
	if len(sink.entries) != 0 {
		t.Errorf("expected no audit entries for a live session, got %d", len(sink.entries))
	}
	if got := store.rows["sess-1"].LastActivity; !got.Equal(now) {
		t.Errorf("expected activity advanced to %v, got %v", now, got)
	}
}

func TestSessionActivity_UnauthenticatedPassesThrough(t *testing.T) {
	store := newMemSessionStore()
	sink := &memAuditRepo{}
	monitor := session.NewMonitor(store, 30*time.Minute)

	e := echo.New()
	called := false
	handler := SessionActivity(monitor, audit.NewService(sink, zerolog.Nop()))(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(sessionRequest(e, uuid.Nil, "")); err != nil {
		t.Fatalf("unauthenticated request: %v", err)
	}
	if !called {
		t.Error("expected unauthenticated request to reach the handler")
	}
	if len(store.rows) != 0 {
		t.Errorf("expected no session rows for unauthenticated traffic, got %d", len(store.rows))
	}
}
