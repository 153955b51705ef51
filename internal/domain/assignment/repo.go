package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts the assignment and its permission rows atomically.
	// A concurrent duplicate insert surfaces as ErrDuplicateAssignment.
	Create(ctx context.Context, a *Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	// FindActiveTriple returns the active assignment for the exact
	// (user, role, hospital) triple, or nil when none exists.
	FindActiveTriple(ctx context.Context, userID, roleID uuid.UUID, hospitalID *uuid.UUID) (*Assignment, error)
	// Deactivate clears the active flag and reports whether a row changed.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	Confirm(ctx context.Context, id uuid.UUID, at time.Time) error
	ListActive(ctx context.Context, userID uuid.UUID) ([]*Assignment, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]*Assignment, error)
}
