package assignment

import "errors"

var (
	// ErrDuplicateAssignment is returned when an active assignment already
	// exists for the same (user, role, hospital) triple.
	ErrDuplicateAssignment = errors.New("user already holds this role at this hospital")

	// ErrInvalidRoleHospitalCombination is returned when a hospital-scoped
	// role is granted without a hospital, or a global role with one.
	ErrInvalidRoleHospitalCombination = errors.New("role scope and hospital reference do not agree")
)
