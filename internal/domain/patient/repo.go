package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	// GetByID loads a patient without tenant filtering; used for write
	// pre-checks, never exposed directly.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// FindVisible loads a patient only if the scope can see it.
	FindVisible(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Patient, int, error)
	Search(ctx context.Context, sc *tenant.Scope, name string, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AddRegistration(ctx context.Context, r *Registration) error
	// RegistrationHospitals returns the hospitals with an active
	// registration for the patient.
	RegistrationHospitals(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error)
}
