package identity

import "errors"

var (
	// ErrDuplicateUser is returned when a username or email collides with an
	// existing user, compared case-insensitively.
	ErrDuplicateUser = errors.New("username or email already in use")

	// ErrUnresolvedRole is returned when a role reference (id, code or name)
	// matches no known role.
	ErrUnresolvedRole = errors.New("role could not be resolved")

	// ErrDuplicateRole is returned when a role code collides.
	ErrDuplicateRole = errors.New("role code already in use")
)
