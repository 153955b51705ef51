package assignment

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is one row of the role/hospital ledger: user X holds role Y,
// optionally at hospital Z. Rows are never hard-deleted; revocation clears
// the active flag and the history stays queryable.
//
// The joined fields below the persistence columns come from the role and
// hospital the row references and are populated on reads.
type Assignment struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	AssignmentCode *string    `json:"assignment_code,omitempty" db:"assignment_code"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	RoleID         uuid.UUID  `json:"role_id" db:"role_id"`
	HospitalID     *uuid.UUID `json:"hospital_id,omitempty" db:"hospital_id"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	Active         bool       `json:"active" db:"active"`
	StartDate      time.Time  `json:"start_date" db:"start_date"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	RegisteredByID *uuid.UUID `json:"registered_by_id,omitempty" db:"registered_by_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	RoleCode        string     `json:"role_code" db:"-"`
	RoleName        string     `json:"role_name" db:"-"`
	RoleScope       string     `json:"role_scope" db:"-"`
	HospitalAdmin   bool       `json:"hospital_admin" db:"-"`
	DepartmentBound bool       `json:"department_bound" db:"-"`
	HospitalName    *string    `json:"hospital_name,omitempty" db:"-"`
	OrganizationID  *uuid.UUID `json:"organization_id,omitempty" db:"-"`

	// Permissions in force for this grant, copied from the role blueprint at
	// grant time and owned by the assignment afterwards.
	Permissions []string `json:"permissions" db:"-"`
}

// GrantRequest carries a grant. Role and hospital may each be referenced by
// id or by a code/name string resolved case-insensitively.
type GrantRequest struct {
	UserID         uuid.UUID
	RoleID         *uuid.UUID
	RoleRef        string
	HospitalID     *uuid.UUID
	HospitalRef    string
	DepartmentID   *uuid.UUID
	AssignmentCode *string
	StartDate      *time.Time
	RegisteredByID *uuid.UUID
}
