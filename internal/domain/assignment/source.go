package assignment

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/domain/identity"
	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

// ScopeSource adapts the ledger to the projection the tenant resolver
// consumes. It implements tenant.AssignmentSource.
type ScopeSource struct {
	repo Repository
}

func NewScopeSource(repo Repository) *ScopeSource {
	return &ScopeSource{repo: repo}
}

func (s *ScopeSource) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]tenant.AssignmentView, error) {
	active, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]tenant.AssignmentView, 0, len(active))
	for _, a := range active {
		views = append(views, tenant.AssignmentView{
			ID:              a.ID,
			RoleCode:        a.RoleCode,
			GlobalRole:      a.RoleScope == string(identity.RoleScopeGlobal),
			HospitalAdmin:   a.HospitalAdmin,
			DepartmentBound: a.DepartmentBound,
			HospitalID:      a.HospitalID,
			OrganizationID:  a.OrganizationID,
			DepartmentID:    a.DepartmentID,
			CreatedAt:       a.CreatedAt,
		})
	}
	return views, nil
}
