package facility

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	Update(ctx context.Context, o *Organization) error
	List(ctx context.Context, limit, offset int) ([]*Organization, int, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByCode(ctx context.Context, code string) (*Hospital, error)
	// FindByCodeOrName matches code or name case-insensitively.
	FindByCodeOrName(ctx context.Context, ref string) (*Hospital, error)
	// FindVisible returns the hospital only when the scope covers it,
	// directly or through its owning organization.
	FindVisible(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	// List applies the scope predicate before pagination, so the page
	// window and total count describe the visible set.
	List(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Hospital, int, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Hospital, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error)
}
