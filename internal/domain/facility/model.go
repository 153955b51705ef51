package facility

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a hospital group or network. Hospitals may exist outside
// any organization.
type Organization struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Hospital is the tenancy unit. Code is unique across the system and usable
// as a stable external reference.
type Hospital struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Code           string     `json:"code" db:"code"`
	Name           string     `json:"name" db:"name"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	Address        *string    `json:"address,omitempty" db:"address"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Active         bool       `json:"active" db:"active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Department is a unit within a hospital, used to narrow department-bound
// role assignments.
type Department struct {
	ID         uuid.UUID `json:"id" db:"id"`
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`
	Code       string    `json:"code" db:"code"`
	Name       string    `json:"name" db:"name"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
