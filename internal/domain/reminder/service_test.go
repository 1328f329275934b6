package reminder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockReminderRepo struct{ store map[uuid.UUID]*Reminder }

func newMockReminderRepo() *mockReminderRepo {
	return &mockReminderRepo{store: make(map[uuid.UUID]*Reminder)}
}
func (m *mockReminderRepo) Create(_ context.Context, r *Reminder) error {
	r.ID = uuid.New(); m.store[r.ID] = r; return nil
}
func (m *mockReminderRepo) GetByID(_ context.Context, id uuid.UUID) (*Reminder, error) {
	r, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return r, nil
}
func (m *mockReminderRepo) Update(_ context.Context, r *Reminder) error {
	if _, ok := m.store[r.ID]; !ok { return fmt.Errorf("not found") }; m.store[r.ID] = r; return nil
}
func (m *mockReminderRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockReminderRepo) ListByUser(_ context.Context, uid uuid.UUID, limit, offset int) ([]*Reminder, int, error) {
	var r []*Reminder; for _, rem := range m.store { if rem.UserID == uid { r = append(r, rem) } }; return r, len(r), nil
}

func newTestService() *Service { return NewService(newMockReminderRepo()) }

func TestCreate_RequiresFields(t *testing.T) {
	svc := newTestService()
	cases := []*Reminder{
		{Message: "x", RemindAt: time.Now()},
		{UserID: uuid.New(), RemindAt: time.Now()},
		{UserID: uuid.New(), Message: "x"},
	}
	for i, r := range cases {
		if err := svc.Create(context.Background(), r); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestMarkSent_OneWay(t *testing.T) {
	svc := newTestService()
	r := &Reminder{UserID: uuid.New(), Message: "appointment tomorrow", RemindAt: time.Now().Add(time.Hour)}
	if err := svc.Create(context.Background(), r); err != nil { t.Fatalf("unexpected error: %v", err) }

	got, err := svc.MarkSent(context.Background(), r.ID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if !got.Sent { t.Fatal("expected sent flag set") }

	// Marking again is a no-op, not an error.
	again, err := svc.MarkSent(context.Background(), r.ID)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if !again.Sent { t.Fatal("sent flag must stay set") }
}

func TestListByUser(t *testing.T) {
	svc := newTestService()
	a, b := uuid.New(), uuid.New()
	svc.Create(context.Background(), &Reminder{UserID: a, Message: "m1", RemindAt: time.Now()})
	svc.Create(context.Background(), &Reminder{UserID: b, Message: "m2", RemindAt: time.Now()})

	items, total, err := svc.ListByUser(context.Background(), a, 20, 0)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if total != 1 || len(items) != 1 { t.Fatalf("expected 1 reminder, got %d", len(items)) }
}
