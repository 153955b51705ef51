package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a patient. The caller's scope must cover the tenancy
// references the record is created with; an out-of-scope write is rejected,
// never silently narrowed.
func (s *Service) Create(ctx context.Context, sc *tenant.Scope, p *Patient) error {
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	if p.GivenName == "" || p.FamilyName == "" {
		return fmt.Errorf("given and family name are required")
	}
	if p.HospitalID == nil && p.OrganizationID == nil {
		return fmt.Errorf("a hospital or organization reference is required")
	}
	if !sc.AllowsEntity(p.OrganizationID, p.HospitalID, nil) {
		return tenant.ErrForbiddenTenantAccess
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Patient, error) {
	return s.repo.FindVisible(ctx, sc, id)
}

func (s *Service) List(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, sc, limit, offset)
}

func (s *Service) Search(ctx context.Context, sc *tenant.Scope, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, sc, name, limit, offset)
}

// Update rewrites a patient record after re-checking visibility against the
// stored tenancy references, including active registrations.
func (s *Service) Update(ctx context.Context, sc *tenant.Scope, p *Patient) error {
	if err := s.checkAccess(ctx, sc, p.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, sc *tenant.Scope, id uuid.UUID) error {
	if err := s.checkAccess(ctx, sc, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// Register links the patient to a hospital the caller may act within. This
// is the indirect visibility path: the record stays where it is and the
// registered hospital gains read access.
func (s *Service) Register(ctx context.Context, sc *tenant.Scope, patientID, hospitalID uuid.UUID) (*Registration, error) {
	if !sc.AllowsHospital(hospitalID) {
		return nil, tenant.ErrForbiddenTenantAccess
	}
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, fmt.Errorf("patient %s: %w", patientID, err)
	}
	reg := &Registration{PatientID: patientID, HospitalID: hospitalID, Active: true}
	if err := s.repo.AddRegistration(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *Service) checkAccess(ctx context.Context, sc *tenant.Scope, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("patient %s: %w", id, err)
	}
	regs, err := s.repo.RegistrationHospitals(ctx, id)
	if err != nil {
		return err
	}
	if !sc.AllowsEntity(p.OrganizationID, p.HospitalID, regs) {
		return tenant.ErrForbiddenTenantAccess
	}
	return nil
}
