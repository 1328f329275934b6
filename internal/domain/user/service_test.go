package user

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

type mockUserRepo struct{ store map[uuid.UUID]*User }

func newMockUserRepo() *mockUserRepo { return &mockUserRepo{store: make(map[uuid.UUID]*User)} }
func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New(); m.store[u.ID] = u; return nil
}
func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return u, nil
}
func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.store { if u.Email == email { return u, nil } }; return nil, fmt.Errorf("not found")
}
func (m *mockUserRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.store[u.ID]; !ok { return fmt.Errorf("not found") }; m.store[u.ID] = u; return nil
}
func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockUserRepo) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var r []*User; for _, u := range m.store { r = append(r, u) }; return r, len(r), nil
}
func (m *mockUserRepo) Count(_ context.Context) (int, error) { return len(m.store), nil }

func newTestService() *Service { return NewService(newMockUserRepo()) }

func TestCreate_DefaultsToClientRole(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "a@example.com", Name: "A"}
	if err := svc.Create(context.Background(), u, "secret"); err != nil { t.Fatalf("unexpected error: %v", err) }
	if u.Role != auth.RoleClient { t.Errorf("expected default role %q, got %q", auth.RoleClient, u.Role) }
	if u.PasswordHash == "" { t.Error("expected password hash to be set") }
	if u.PasswordHash == "secret" { t.Error("password stored in plaintext") }
}

func TestCreate_InvalidRole(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "a@example.com", Name: "A", Role: "superuser"}
	if err := svc.Create(context.Background(), u, ""); err == nil { t.Fatal("expected error") }
}

func TestCreate_MissingEmail(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &User{Name: "A"}, ""); err == nil { t.Fatal("expected error") }
}

func TestCreate_NormalizesEmail(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "  Mixed@Example.COM ", Name: "A"}
	if err := svc.Create(context.Background(), u, ""); err != nil { t.Fatalf("unexpected error: %v", err) }
	if u.Email != "mixed@example.com" { t.Errorf("expected normalized email, got %q", u.Email) }
}

func TestAuthenticate_Success(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "c@example.com", Name: "C", Role: auth.RoleClient}
	if err := svc.Create(context.Background(), u, "correct horse"); err != nil { t.Fatalf("unexpected error: %v", err) }
	got, err := svc.Authenticate(context.Background(), "c@example.com", "correct horse")
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if got.ID != u.ID { t.Error("authenticated wrong user") }
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "c@example.com", Name: "C"}
	svc.Create(context.Background(), u, "correct horse")
	if _, err := svc.Authenticate(context.Background(), "c@example.com", "battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_NoPasswordSet(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "sso@example.com", Name: "S"}
	svc.Create(context.Background(), u, "")
	if _, err := svc.Authenticate(context.Background(), "sso@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveRole_KnownUser(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "t@example.com", Name: "T", Role: auth.RoleTherapist}
	svc.Create(context.Background(), u, "")
	if got := svc.ResolveRole(context.Background(), u.ID.String()); got != auth.RoleTherapist {
		t.Errorf("expected therapist, got %q", got)
	}
}

func TestResolveRole_UnknownUserDefaultsToClient(t *testing.T) {
	svc := newTestService()
	if got := svc.ResolveRole(context.Background(), uuid.New().String()); got != auth.RoleClient {
		t.Errorf("expected client for unknown user, got %q", got)
	}
}

func TestResolveRole_MalformedID(t *testing.T) {
	svc := newTestService()
	if got := svc.ResolveRole(context.Background(), "not-a-uuid"); got != auth.RoleClient {
		t.Errorf("expected client for malformed id, got %q", got)
	}
}

func TestSetPassword_RotatesCredential(t *testing.T) {
	svc := newTestService()
	u := &User{Email: "r@example.com", Name: "R"}
	svc.Create(context.Background(), u, "old")
	if err := svc.SetPassword(context.Background(), u.ID, "new"); err != nil { t.Fatalf("unexpected error: %v", err) }
	if _, err := svc.Authenticate(context.Background(), "r@example.com", "old"); err == nil { t.Fatal("old password still accepted") }
	if _, err := svc.Authenticate(context.Background(), "r@example.com", "new"); err != nil { t.Fatalf("new password rejected: %v", err) }
}
