package journal

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockEntryRepo struct{ store map[uuid.UUID]*Entry }

func newMockEntryRepo() *mockEntryRepo { return &mockEntryRepo{store: make(map[uuid.UUID]*Entry)} }
func (m *mockEntryRepo) Create(_ context.Context, e *Entry) error {
	e.ID = uuid.New(); m.store[e.ID] = e; return nil
}
func (m *mockEntryRepo) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	e, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return e, nil
}
func (m *mockEntryRepo) Update(_ context.Context, e *Entry) error {
	if _, ok := m.store[e.ID]; !ok { return fmt.Errorf("not found") }; m.store[e.ID] = e; return nil
}
func (m *mockEntryRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockEntryRepo) ListByUser(_ context.Context, uid uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var r []*Entry; for _, e := range m.store { if e.UserID == uid { r = append(r, e) } }; return r, len(r), nil
}
func (m *mockEntryRepo) ListSharedByUser(_ context.Context, uid uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var r []*Entry; for _, e := range m.store { if e.UserID == uid && e.IsShared { r = append(r, e) } }; return r, len(r), nil
}

func newTestService() *Service { return NewService(newMockEntryRepo()) }

func TestCreate_Success(t *testing.T) {
	svc := newTestService()
	e := &Entry{UserID: uuid.New(), Content: "slept badly"}
	if err := svc.Create(context.Background(), e); err != nil { t.Fatalf("unexpected error: %v", err) }
	if e.ID == uuid.Nil { t.Error("expected assigned id") }
}

func TestCreate_MissingUser(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Entry{Content: "x"}); err == nil { t.Fatal("expected error") }
}

func TestCreate_MissingContent(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Entry{UserID: uuid.New()}); err == nil { t.Fatal("expected error") }
}

func TestListShared_ExcludesPrivateEntries(t *testing.T) {
	svc := newTestService()
	owner := uuid.New()
	svc.Create(context.Background(), &Entry{UserID: owner, Content: "private", IsShared: false})
	svc.Create(context.Background(), &Entry{UserID: owner, Content: "shared", IsShared: true})

	shared, total, err := svc.ListShared(context.Background(), owner, 20, 0)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if total != 1 || len(shared) != 1 { t.Fatalf("expected exactly 1 shared entry, got %d", len(shared)) }
	if !shared[0].IsShared { t.Error("returned a private entry") }
}

func TestListByUser_ScopedToOwner(t *testing.T) {
	svc := newTestService()
	a, b := uuid.New(), uuid.New()
	svc.Create(context.Background(), &Entry{UserID: a, Content: "a1"})
	svc.Create(context.Background(), &Entry{UserID: b, Content: "b1"})

	items, _, err := svc.ListByUser(context.Background(), a, 20, 0)
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	for _, e := range items {
		if e.UserID != a { t.Errorf("entry for %s leaked into %s's list", e.UserID, a) }
	}
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	e := &Entry{UserID: uuid.New(), Content: "gone"}
	svc.Create(context.Background(), e)
	if err := svc.Delete(context.Background(), e.ID); err != nil { t.Fatalf("unexpected error: %v", err) }
	if _, err := svc.Get(context.Background(), e.ID); err == nil { t.Fatal("expected error after delete") }
}
