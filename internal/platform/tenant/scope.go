package tenant

import (
	"context"

	"github.com/google/uuid"
)

// SuperAdminRole is the role code whose holders bypass tenant scoping.
const SuperAdminRole = "ROLE_SUPER_ADMIN"

// Scope is the per-request tenant context: the hospitals, organizations and
// departments the principal may act within. It is derived from the active
// assignments at resolution time, never persisted, never mutated after
// construction, and never shared across requests.
//
// When SuperAdmin is set the id sets are left empty and must not be used as
// membership filters; callers check the flag first.
type Scope struct {
	UserID           uuid.UUID
	Username         string
	SuperAdmin       bool
	HospitalAdmin    bool
	ActiveHospitalID *uuid.UUID
	HospitalIDs      []uuid.UUID
	OrganizationIDs  []uuid.UUID
	DepartmentIDs    []uuid.UUID
}

// Empty reports whether the scope grants no tenant at all. A principal with
// zero active assignments resolves to an empty scope; every scoped query then
// returns zero rows rather than erroring.
func (s *Scope) Empty() bool {
	return !s.SuperAdmin && len(s.HospitalIDs) == 0 && len(s.OrganizationIDs) == 0
}

// AllowsHospital reports whether the principal may act within hospital id.
func (s *Scope) AllowsHospital(id uuid.UUID) bool {
	if s.SuperAdmin {
		return true
	}
	return containsID(s.HospitalIDs, id)
}

// AllowsOrganization reports whether the principal may act within organization id.
func (s *Scope) AllowsOrganization(id uuid.UUID) bool {
	if s.SuperAdmin {
		return true
	}
	return containsID(s.OrganizationIDs, id)
}

// AllowsDepartment reports whether the principal holds a department-bound
// grant for department id.
func (s *Scope) AllowsDepartment(id uuid.UUID) bool {
	if s.SuperAdmin {
		return true
	}
	return containsID(s.DepartmentIDs, id)
}

// AllowsEntity evaluates the tenant visibility predicate against an entity's
// tenancy references: direct organization, direct hospital, or any hospital
// reachable through an active registration. It is the in-process counterpart
// of Filter.Append and is used as the pre-condition for scoped writes.
func (s *Scope) AllowsEntity(orgID, hospitalID *uuid.UUID, registrationHospitalIDs []uuid.UUID) bool {
	if s.SuperAdmin {
		return true
	}
	if orgID != nil && containsID(s.OrganizationIDs, *orgID) {
		return true
	}
	if hospitalID != nil && containsID(s.HospitalIDs, *hospitalID) {
		return true
	}
	for _, h := range registrationHospitalIDs {
		if containsID(s.HospitalIDs, h) {
			return true
		}
	}
	return false
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type scopeContextKey struct{}

// NewContext returns a context carrying the resolved scope.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey{}, s)
}

// FromContext retrieves the scope resolved for this request. A missing scope
// returns an empty, fail-closed scope rather than nil so that repositories
// never run unscoped by accident.
func FromContext(ctx context.Context) *Scope {
	if s, ok := ctx.Value(scopeContextKey{}).(*Scope); ok && s != nil {
		return s
	}
	return &Scope{}
}
