package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mapStore struct{ store map[string]*Activity }

func newMapStore() *mapStore { return &mapStore{store: make(map[string]*Activity)} }
func (m *mapStore) Get(_ context.Context, id string) (*Activity, error) {
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}
func (m *mapStore) Upsert(_ context.Context, a *Activity) error {
	if prev, ok := m.store[a.SessionID]; ok && a.LastActivity.Before(prev.LastActivity) {
		return nil
	}
	cp := *a
	m.store[a.SessionID] = &cp
	return nil
}
func (m *mapStore) Delete(_ context.Context, id string) error { delete(m.store, id); return nil }

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestTouch_FirstRequestIsFresh(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)

	state, err := m.Touch(context.Background(), "s1", uuid.New())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if state != StateFresh { t.Errorf("expected fresh, got %s", state) }
	if _, ok := store.store["s1"]; !ok { t.Error("fresh touch must record activity") }
}

func TestTouch_WithinWindowIsActive(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(29 * time.Minute)))
	state, err := m.Touch(context.Background(), "s1", uid)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if state != StateActive { t.Errorf("29 minutes idle should be active, got %s", state) }
}

func TestTouch_PastWindowExpires(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(31 * time.Minute)))
	state, err := m.Touch(context.Background(), "s1", uid)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if state != StateExpired { t.Errorf("31 minutes idle should expire, got %s", state) }
	if _, ok := store.store["s1"]; ok { t.Error("expired session row must be removed") }
}

func TestTouch_ExactBoundaryStillActive(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(30 * time.Minute)))
	state, _ := m.Touch(context.Background(), "s1", uid)
	if state != StateActive { t.Errorf("exactly at threshold should still be active, got %s", state) }
}

func TestTouch_ActivityExtendsSession(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	// Activity at +20min pushes the window forward; +45min is then only
	// 25 minutes idle.
	m.SetClock(fixedClock(t0.Add(20 * time.Minute)))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(45 * time.Minute)))
	state, _ := m.Touch(context.Background(), "s1", uid)
	if state != StateActive { t.Errorf("extended session should be active, got %s", state) }
}

func TestStatus_QueryCountsAsActivity(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(15 * time.Minute)))
	st, err := m.Status(context.Background(), "s1", uid)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if !st.Valid { t.Fatal("session should be valid") }
	if st.RemainingMinutes != 30 { t.Errorf("status query should reset the window, remaining = %d", st.RemainingMinutes) }
}

func TestStatus_ExpiredReportsInvalid(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 30*time.Minute)
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	uid := uuid.New()

	m.SetClock(fixedClock(t0))
	m.Touch(context.Background(), "s1", uid)

	m.SetClock(fixedClock(t0.Add(time.Hour)))
	st, err := m.Status(context.Background(), "s1", uid)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if st.Valid { t.Error("expired session must report invalid") }
	if st.RemainingMinutes != 0 { t.Errorf("expired session remaining = %d", st.RemainingMinutes) }
}

func TestTerminate_RemovesRow(t *testing.T) {
	store := newMapStore()
	m := NewMonitor(store, 0) // 0 falls back to the default threshold
	uid := uuid.New()
	m.Touch(context.Background(), "s1", uid)
	if err := m.Terminate(context.Background(), "s1"); err != nil { t.Fatalf("unexpected error: %v", err) }
	state, _ := m.Touch(context.Background(), "s1", uid)
	if state != StateFresh { t.Errorf("after terminate the next touch starts fresh, got %s", state) }
}

func TestNewMonitor_DefaultTimeout(t *testing.T) {
	m := NewMonitor(newMapStore(), 0)
	if m.TimeoutMinutes() != 30 { t.Errorf("expected 30 minute default, got %d", m.TimeoutMinutes()) }
}
