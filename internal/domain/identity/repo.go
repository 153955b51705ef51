package identity

import (
	"context"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}

type RoleRepository interface {
	Create(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	// FindByCodeOrName matches code or name case-insensitively.
	FindByCodeOrName(ctx context.Context, ref string) (*Role, error)
	Update(ctx context.Context, r *Role) error
	List(ctx context.Context, limit, offset int) ([]*Role, int, error)
}
