package facility

import "errors"

var (
	// ErrUnresolvedHospital is returned when a hospital reference (id, code
	// or name) matches no known hospital.
	ErrUnresolvedHospital = errors.New("hospital could not be resolved")

	// ErrDuplicateHospital is returned when a hospital code collides.
	ErrDuplicateHospital = errors.New("hospital code already in use")
)
