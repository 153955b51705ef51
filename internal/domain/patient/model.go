package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the scoped entity of the system. Visibility follows three
// paths: a direct organization reference, a direct hospital reference, or an
// active registration at a permitted hospital.
type Patient struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	MRN            string     `json:"mrn" db:"mrn"`
	GivenName      string     `json:"given_name" db:"given_name"`
	FamilyName     string     `json:"family_name" db:"family_name"`
	BirthDate      *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	HospitalID     *uuid.UUID `json:"hospital_id,omitempty" db:"hospital_id"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	IsDeleted      bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// Registration links a patient to a hospital without moving the record; it
// is the indirect visibility path for shared care.
type Registration struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
