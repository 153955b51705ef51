package assignment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Auditor observes ledger mutations. Grant and revoke are the two events
// that change who can see what; both carry the acting principal.
type Auditor interface {
	GrantRecorded(ctx context.Context, a *Assignment, actor uuid.UUID)
	RevokeRecorded(ctx context.Context, a *Assignment, actor uuid.UUID, reason string)
}

// LogAuditor writes the audit trail to the structured log.
type LogAuditor struct {
	log zerolog.Logger
}

func NewLogAuditor(log zerolog.Logger) *LogAuditor {
	return &LogAuditor{log: log}
}

func (l *LogAuditor) GrantRecorded(_ context.Context, a *Assignment, actor uuid.UUID) {
	evt := l.log.Info().
		Str("event", "assignment_granted").
		Stringer("assignment_id", a.ID).
		Stringer("user_id", a.UserID).
		Str("role_code", a.RoleCode).
		Stringer("actor", actor)
	if a.HospitalID != nil {
		evt = evt.Stringer("hospital_id", *a.HospitalID)
	}
	evt.Msg("role assignment granted")
}

func (l *LogAuditor) RevokeRecorded(_ context.Context, a *Assignment, actor uuid.UUID, reason string) {
	l.log.Info().
		Str("event", "assignment_revoked").
		Stringer("assignment_id", a.ID).
		Stringer("user_id", a.UserID).
		Str("role_code", a.RoleCode).
		Stringer("actor", actor).
		Str("reason", reason).
		Msg("role assignment revoked")
}
