package facility

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type Service struct {
	orgs        OrganizationRepository
	hospitals   HospitalRepository
	departments DepartmentRepository
}

func NewService(orgs OrganizationRepository, hospitals HospitalRepository, departments DepartmentRepository) *Service {
	return &Service{orgs: orgs, hospitals: hospitals, departments: departments}
}

func (s *Service) CreateOrganization(ctx context.Context, o *Organization) error {
	if o.Name == "" {
		return fmt.Errorf("organization name is required")
	}
	o.Active = true
	return s.orgs.Create(ctx, o)
}

func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *Service) ListOrganizations(ctx context.Context, limit, offset int) ([]*Organization, int, error) {
	return s.orgs.List(ctx, limit, offset)
}

func (s *Service) CreateHospital(ctx context.Context, h *Hospital) error {
	if h.Code == "" {
		return fmt.Errorf("hospital code is required")
	}
	if h.Name == "" {
		return fmt.Errorf("hospital name is required")
	}
	if h.OrganizationID != nil {
		if _, err := s.orgs.GetByID(ctx, *h.OrganizationID); err != nil {
			return fmt.Errorf("organization %s not found", h.OrganizationID)
		}
	}
	h.Active = true
	return s.hospitals.Create(ctx, h)
}

// GetHospital returns the hospital when the caller's scope covers it,
// directly or through its owning organization.
func (s *Service) GetHospital(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Hospital, error) {
	return s.hospitals.FindVisible(ctx, sc, id)
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	if h.Code == "" || h.Name == "" {
		return fmt.Errorf("hospital code and name are required")
	}
	return s.hospitals.Update(ctx, h)
}

// ListHospitals pages over the hospitals visible to the caller. The scope
// predicate is part of the query, so the page window and the total both
// describe the visible set.
func (s *Service) ListHospitals(ctx context.Context, sc *tenant.Scope, limit, offset int) ([]*Hospital, int, error) {
	return s.hospitals.List(ctx, sc, limit, offset)
}

func (s *Service) ListHospitalsByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Hospital, error) {
	return s.hospitals.ListByOrganization(ctx, orgID)
}

// ResolveHospital resolves a hospital reference supplied at grant time: a
// direct id or a code/name matched case-insensitively. Failure to match is
// ErrUnresolvedHospital with the offending reference echoed back.
func (s *Service) ResolveHospital(ctx context.Context, id *uuid.UUID, ref string) (*Hospital, error) {
	if id != nil {
		h, err := s.hospitals.GetByID(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("%w: id %s", ErrUnresolvedHospital, id)
		}
		return h, nil
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: no reference supplied", ErrUnresolvedHospital)
	}
	h, err := s.hospitals.FindByCodeOrName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvedHospital, ref)
	}
	return h, nil
}

func (s *Service) CreateDepartment(ctx context.Context, d *Department) error {
	if d.Code == "" || d.Name == "" {
		return fmt.Errorf("department code and name are required")
	}
	if _, err := s.hospitals.GetByID(ctx, d.HospitalID); err != nil {
		return fmt.Errorf("hospital %s not found", d.HospitalID)
	}
	d.Active = true
	return s.departments.Create(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	return s.departments.ListByHospital(ctx, hospitalID)
}
