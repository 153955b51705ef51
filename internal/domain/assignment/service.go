package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/domain/facility"
	"github.com/DevFaso/hms-sub012/internal/domain/identity"
)

// RoleResolver and HospitalResolver are the two lookups a grant needs.
// Satisfied by identity.Service and facility.Service.
type RoleResolver interface {
	ResolveRole(ctx context.Context, id *uuid.UUID, ref string) (*identity.Role, error)
}

type HospitalResolver interface {
	ResolveHospital(ctx context.Context, id *uuid.UUID, ref string) (*facility.Hospital, error)
}

type Service struct {
	repo      Repository
	roles     RoleResolver
	hospitals HospitalResolver
	audit     Auditor
}

func NewService(repo Repository, roles RoleResolver, hospitals HospitalResolver, audit Auditor) *Service {
	return &Service{repo: repo, roles: roles, hospitals: hospitals, audit: audit}
}

// Grant records a new role assignment. The role reference must resolve, the
// hospital reference (when present) must resolve, the role's scope must
// agree with the hospital reference, and no active assignment may already
// exist for the same (user, role, hospital) triple.
//
// Permissions in force are copied from the role blueprint at grant time, so
// later edits to the role do not retroactively change existing grants.
func (s *Service) Grant(ctx context.Context, req GrantRequest) (*Assignment, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	role, err := s.roles.ResolveRole(ctx, req.RoleID, req.RoleRef)
	if err != nil {
		return nil, err
	}

	var hospital *facility.Hospital
	if req.HospitalID != nil || req.HospitalRef != "" {
		hospital, err = s.hospitals.ResolveHospital(ctx, req.HospitalID, req.HospitalRef)
		if err != nil {
			return nil, err
		}
	}

	if role.Global() && hospital != nil {
		return nil, fmt.Errorf("%w: role %s is global", ErrInvalidRoleHospitalCombination, role.Code)
	}
	if !role.Global() && hospital == nil {
		return nil, fmt.Errorf("%w: role %s requires a hospital", ErrInvalidRoleHospitalCombination, role.Code)
	}

	var hospitalID *uuid.UUID
	if hospital != nil {
		hospitalID = &hospital.ID
	}

	// Pre-check for the friendly error; the partial unique index still
	// catches a concurrent insert of the same triple.
	existing, err := s.repo.FindActiveTriple(ctx, req.UserID, role.ID, hospitalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAssignment
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	a := &Assignment{
		AssignmentCode: req.AssignmentCode,
		UserID:         req.UserID,
		RoleID:         role.ID,
		HospitalID:     hospitalID,
		DepartmentID:   req.DepartmentID,
		Active:         true,
		StartDate:      start,
		RegisteredByID: req.RegisteredByID,
		RoleCode:       role.Code,
		RoleName:       role.Name,
		RoleScope:      string(role.Scope),
		Permissions:    append([]string(nil), role.BlueprintPermissions...),
	}
	if hospital != nil {
		a.HospitalName = &hospital.Name
		a.OrganizationID = hospital.OrganizationID
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	actor := uuid.Nil
	if req.RegisteredByID != nil {
		actor = *req.RegisteredByID
	}
	s.audit.GrantRecorded(ctx, a, actor)
	return a, nil
}

// Revoke deactivates an assignment. Revoking an already-inactive assignment
// is a no-op success; the row itself is never deleted.
func (s *Service) Revoke(ctx context.Context, id, actor uuid.UUID, reason string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("assignment %s: %w", id, err)
	}
	changed, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if changed {
		s.audit.RevokeRecorded(ctx, a, actor, reason)
	}
	return nil
}

// Confirm stamps the assignment as acknowledged by its holder.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	return s.repo.Confirm(ctx, id, time.Now())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*Assignment, error) {
	return s.repo.ListActive(ctx, userID)
}

// ListAll includes revoked assignments, for audit review.
func (s *Service) ListAll(ctx context.Context, userID uuid.UUID) ([]*Assignment, error) {
	return s.repo.ListAll(ctx, userID)
}
