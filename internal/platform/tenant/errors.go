package tenant

import "errors"

var (
	// ErrForbiddenHospitalSelection is returned when a request selects an
	// active hospital outside the principal's permitted set. Surfaced as an
	// authorization failure, never a 404, so existence is not leaked.
	ErrForbiddenHospitalSelection = errors.New("selected hospital is not in the permitted scope")

	// ErrForbiddenTenantAccess is returned when a write targets an entity
	// outside the resolved scope. Reads never raise it; they fail closed
	// with empty results instead.
	ErrForbiddenTenantAccess = errors.New("entity is outside the permitted tenant scope")
)
