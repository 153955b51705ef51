package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	users UserRepository
	roles RoleRepository
}

func NewService(users UserRepository, roles RoleRepository) *Service {
	return &Service{users: users, roles: roles}
}

// -- Users --

func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Active = true
	return s.users.Create(ctx, u)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *Service) UpdateUser(ctx context.Context, u *User) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	return s.users.Update(ctx, u)
}

// DeleteUser soft-deletes; user rows are retained for the audit history of
// assignments they registered.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.SoftDelete(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.users.List(ctx, limit, offset)
}

// CheckPassword verifies a login credential against the stored hash.
func (s *Service) CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// -- Roles --

func (s *Service) CreateRole(ctx context.Context, r *Role) error {
	if r.Code == "" {
		return fmt.Errorf("role code is required")
	}
	if !strings.HasPrefix(r.Code, "ROLE_") {
		return fmt.Errorf("role code must start with ROLE_")
	}
	if r.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if r.Scope == "" {
		r.Scope = RoleScopeHospital
	}
	if r.Scope != RoleScopeGlobal && r.Scope != RoleScopeHospital {
		return fmt.Errorf("invalid role scope %q", r.Scope)
	}
	return s.roles.Create(ctx, r)
}

func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	return s.roles.GetByID(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, r *Role) error {
	return s.roles.Update(ctx, r)
}

func (s *Service) ListRoles(ctx context.Context, limit, offset int) ([]*Role, int, error) {
	return s.roles.List(ctx, limit, offset)
}

// ResolveRole resolves a role reference supplied at grant time: a direct id
// or a code/name matched case-insensitively. Failure to match is
// ErrUnresolvedRole with the offending reference echoed back.
func (s *Service) ResolveRole(ctx context.Context, id *uuid.UUID, ref string) (*Role, error) {
	if id != nil {
		role, err := s.roles.GetByID(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("%w: id %s", ErrUnresolvedRole, id)
		}
		return role, nil
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: no reference supplied", ErrUnresolvedRole)
	}
	role, err := s.roles.FindByCodeOrName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedRole, ref)
	}
	return role, nil
}
