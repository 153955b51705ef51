package identity

import (
	"time"

	"github.com/google/uuid"
)

// User maps to the app_user table. Users are tenant-independent; what they
// may see is determined entirely by their role assignments.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	DisplayName  *string    `db:"display_name" json:"display_name,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Active       bool       `db:"active" json:"active"`
	IsDeleted    bool       `db:"is_deleted" json:"is_deleted"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// RoleScope is the tagged variant distinguishing system-wide roles from
// roles that must be granted at a hospital.
type RoleScope string

const (
	RoleScopeGlobal   RoleScope = "GLOBAL"
	RoleScopeHospital RoleScope = "HOSPITAL"
)

// Role maps to the role table. A role is a named capability bundle; the
// permissions actually in force are recorded per assignment, with
// BlueprintPermissions serving as the template copied onto new grants.
type Role struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	Code                 string    `db:"code" json:"code"`
	Name                 string    `db:"name" json:"name"`
	Scope                RoleScope `db:"scope" json:"scope"`
	HospitalAdmin        bool      `db:"hospital_admin" json:"hospital_admin"`
	DepartmentBound      bool      `db:"department_bound" json:"department_bound"`
	BlueprintPermissions []string  `db:"blueprint_permissions" json:"blueprint_permissions,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// Global reports whether assignments of this role carry no hospital.
func (r *Role) Global() bool {
	return r.Scope == RoleScopeGlobal
}
