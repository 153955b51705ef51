package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AssignmentView is the projection of an active role assignment the resolver
// needs: the role's code and capabilities plus the tenancy references the
// assignment binds the user to.
type AssignmentView struct {
	ID              uuid.UUID
	RoleCode        string
	GlobalRole      bool
	HospitalAdmin   bool
	DepartmentBound bool
	HospitalID      *uuid.UUID
	OrganizationID  *uuid.UUID
	DepartmentID    *uuid.UUID
	CreatedAt       time.Time
}

// AssignmentSource loads the active assignments for a principal. Implemented
// by the assignment ledger; defined here so the resolver depends only on the
// projection it consumes.
type AssignmentSource interface {
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]AssignmentView, error)
}

// Resolver computes a request's tenant Scope from the assignment ledger.
// Scopes are recomputed on every request; assignments may change between
// requests and in-flight requests keep the state they resolved against.
type Resolver struct {
	src AssignmentSource
	log zerolog.Logger
}

func NewResolver(src AssignmentSource, log zerolog.Logger) *Resolver {
	return &Resolver{src: src, log: log}
}

// Resolve builds the scope for the principal. requestedHospitalID is the
// explicit active-hospital selection from the request (header or claim); it
// must be a member of the permitted set unless the principal is super-admin,
// otherwise ErrForbiddenHospitalSelection is returned.
//
// A principal with zero active assignments resolves to an empty scope, not
// an error: scoped reads then fail closed with empty results.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, username string, requestedHospitalID *uuid.UUID) (*Scope, error) {
	views, err := r.src.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active assignments for %s: %w", userID, err)
	}

	sc := &Scope{UserID: userID, Username: username}

	// Super-admin wins regardless of what else the user holds; the id sets
	// stay empty and callers must check the flag before filtering.
	for _, v := range views {
		if v.RoleCode == SuperAdminRole {
			sc.SuperAdmin = true
			break
		}
	}

	if !sc.SuperAdmin {
		for _, v := range views {
			if v.HospitalAdmin {
				sc.HospitalAdmin = true
			}
			if v.HospitalID == nil {
				// Global assignment: no hospital membership to union in.
				continue
			}
			if !containsID(sc.HospitalIDs, *v.HospitalID) {
				sc.HospitalIDs = append(sc.HospitalIDs, *v.HospitalID)
			}
			if v.OrganizationID != nil && !containsID(sc.OrganizationIDs, *v.OrganizationID) {
				sc.OrganizationIDs = append(sc.OrganizationIDs, *v.OrganizationID)
			}
			if v.DepartmentBound && v.DepartmentID != nil && !containsID(sc.DepartmentIDs, *v.DepartmentID) {
				sc.DepartmentIDs = append(sc.DepartmentIDs, *v.DepartmentID)
			}
		}
	}

	if requestedHospitalID != nil {
		if !sc.AllowsHospital(*requestedHospitalID) {
			r.log.Warn().
				Stringer("user_id", userID).
				Stringer("hospital_id", *requestedHospitalID).
				Msg("active hospital selection outside permitted scope")
			return nil, ErrForbiddenHospitalSelection
		}
		sc.ActiveHospitalID = requestedHospitalID
	}

	r.log.Debug().
		Stringer("user_id", userID).
		Bool("super_admin", sc.SuperAdmin).
		Bool("hospital_admin", sc.HospitalAdmin).
		Int("hospitals", len(sc.HospitalIDs)).
		Int("organizations", len(sc.OrganizationIDs)).
		Msg("tenant scope resolved")

	return sc, nil
}
