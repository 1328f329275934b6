// Package session enforces the portal's idle timeout. Each live session has
// one activity row; a session idle past the threshold is terminated
// server-side and the caller must re-authenticate.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the idle threshold after which a session expires.
const DefaultTimeout = 30 * time.Minute

// ErrNotFound is returned by a Store when no activity row exists.
var ErrNotFound = errors.New("session activity not found")

// State of a session as seen by the monitor.
type State int

const (
	// StateFresh: first request on this session; activity was just recorded.
	StateFresh State = iota
	// StateActive: within the idle threshold; activity was extended.
	StateActive
	// StateExpired: idle past the threshold; the session was terminated.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Activity is the last-seen timestamp for one live session.
type Activity struct {
	SessionID    string    `db:"session_id" json:"session_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	LastActivity time.Time `db:"last_activity" json:"last_activity"`
}

// Store persists session activity. One row per session id; LastActivity only
// moves forward while the session is live.
type Store interface {
	Get(ctx context.Context, sessionID string) (*Activity, error)
	Upsert(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, sessionID string) error
}

// Status is the client-facing session state, served so a UI can warn the user
// before forced logout.
type Status struct {
	Valid            bool `json:"valid"`
	RemainingMinutes int  `json:"remaining_minutes"`
	TimeoutMinutes   int  `json:"timeout_minutes"`
}

// Monitor tracks per-session activity and decides expiry.
type Monitor struct {
	store   Store
	timeout time.Duration
	now     func() time.Time
}

func NewMonitor(store Store, timeout time.Duration) *Monitor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Monitor{store: store, timeout: timeout, now: time.Now}
}

// SetClock overrides the monitor's clock. Test hook.
func (m *Monitor) SetClock(now func() time.Time) { m.now = now }

// TimeoutMinutes returns the configured idle threshold in whole minutes.
func (m *Monitor) TimeoutMinutes() int {
	return int(m.timeout / time.Minute)
}

// Touch records activity for the session and returns its state. A session
// idle past the threshold transitions to Expired and its row is removed; the
// caller is responsible for the session_timeout audit entry and for rejecting
// the request.
func (m *Monitor) Touch(ctx context.Context, sessionID string, userID uuid.UUID) (State, error) {
	now := m.now().UTC()

	act, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if err := m.store.Upsert(ctx, &Activity{SessionID: sessionID, UserID: userID, LastActivity: now}); err != nil {
				return StateFresh, fmt.Errorf("record fresh session: %w", err)
			}
			return StateFresh, nil
		}
		return StateFresh, fmt.Errorf("load session activity: %w", err)
	}

	if now.Sub(act.LastActivity) > m.timeout {
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return StateExpired, fmt.Errorf("terminate expired session: %w", err)
		}
		return StateExpired, nil
	}

	act.LastActivity = now
	if err := m.store.Upsert(ctx, act); err != nil {
		return StateActive, fmt.Errorf("extend session activity: %w", err)
	}
	return StateActive, nil
}

// Status reports the session's remaining lifetime. Querying status itself
// counts as activity and extends the session.
func (m *Monitor) Status(ctx context.Context, sessionID string, userID uuid.UUID) (*Status, error) {
	state, err := m.Touch(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if state == StateExpired {
		return &Status{Valid: false, RemainingMinutes: 0, TimeoutMinutes: m.TimeoutMinutes()}, nil
	}
	// Touch just reset the clock, so the full window remains.
	return &Status{
		Valid:            true,
		RemainingMinutes: m.TimeoutMinutes(),
		TimeoutMinutes:   m.TimeoutMinutes(),
	}, nil
}

// Terminate removes the session's activity row, ending idle tracking. Used on
// logout.
func (m *Monitor) Terminate(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}
