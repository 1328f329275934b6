package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

// ErrInvalidCredentials is returned for any login failure. The caller must
// not distinguish unknown emails from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

var validRoles = map[string]bool{
	auth.RoleTherapist:   true,
	auth.RoleOfficeAdmin: true,
	auth.RoleClient:      true,
}

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, u *User, password string) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Role == "" {
		u.Role = auth.RoleClient
	}
	if !validRoles[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
	}
	return s.users.Create(ctx, u)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) Update(ctx context.Context, u *User) error {
	if u.Role != "" && !validRoles[u.Role] {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return s.users.Update(ctx, u)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// Authenticate checks an email/password pair. Every failure path returns
// ErrInvalidCredentials so response timing and wording stay uniform.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, password string) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

// ResolveRole looks up the authoritative role for a user id. Unknown or
// malformed ids resolve to the least privileged role.
func (s *Service) ResolveRole(ctx context.Context, userID string) string {
	id, err := uuid.Parse(userID)
	if err != nil {
		return auth.RoleClient
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return auth.RoleClient
	}
	if !validRoles[u.Role] {
		return auth.RoleClient
	}
	return u.Role
}
