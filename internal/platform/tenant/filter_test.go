package tenant

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

var patientFilter = Filter{
	OrganizationColumn: "p.organization_id",
	HospitalColumn:     "p.hospital_id",
	RegistrationExists: `EXISTS (SELECT 1 FROM patient_registration r WHERE r.patient_id = p.id AND r.active AND r.hospital_id = ANY(%s))`,
}

func TestFilter_SuperAdminAddsNoClause(t *testing.T) {
	sc := &Scope{SuperAdmin: true}
	q, args, idx := patientFilter.Append(sc, `SELECT * FROM patient p WHERE NOT p.is_deleted`, nil, 1)

	if strings.Contains(q, "AND") {
		t.Errorf("super-admin query gained a clause: %s", q)
	}
	if len(args) != 0 || idx != 1 {
		t.Errorf("args/idx changed: %v %d", args, idx)
	}
}

func TestFilter_EmptyScopeFailsClosed(t *testing.T) {
	sc := &Scope{}
	q, _, _ := patientFilter.Append(sc, `SELECT * FROM patient p WHERE NOT p.is_deleted`, nil, 1)

	if !strings.HasSuffix(q, ` AND false`) {
		t.Errorf("empty scope must append AND false, got: %s", q)
	}
}

func TestFilter_BuildsDisjunction(t *testing.T) {
	sc := &Scope{
		HospitalIDs:     []uuid.UUID{uuid.New()},
		OrganizationIDs: []uuid.UUID{uuid.New()},
	}

	q, args, idx := patientFilter.Append(sc, `SELECT * FROM patient p WHERE NOT p.is_deleted`, nil, 1)

	want := ` AND (p.organization_id = ANY($1) OR p.hospital_id = ANY($2) OR EXISTS (SELECT 1 FROM patient_registration r WHERE r.patient_id = p.id AND r.active AND r.hospital_id = ANY($3)))`
	if !strings.HasSuffix(q, want) {
		t.Errorf("query = %s\nwant suffix %s", q, want)
	}
	if len(args) != 3 {
		t.Errorf("len(args) = %d, want 3", len(args))
	}
	if idx != 4 {
		t.Errorf("next idx = %d, want 4", idx)
	}
}

func TestFilter_ComposesWithExistingArgs(t *testing.T) {
	sc := &Scope{HospitalIDs: []uuid.UUID{uuid.New()}}
	f := Filter{HospitalColumn: "e.hospital_id"}

	q, args, idx := f.Append(sc, `SELECT * FROM encounter e WHERE e.status = $1`, []interface{}{"active"}, 2)

	if !strings.HasSuffix(q, ` AND (e.hospital_id = ANY($2))`) {
		t.Errorf("query = %s", q)
	}
	if len(args) != 2 || idx != 3 {
		t.Errorf("args = %v idx = %d", args, idx)
	}
}

func TestFilter_HospitalsOnlyScopeWithOrgOnlyFilterFailsClosed(t *testing.T) {
	// Entity exposes only an organization column but the scope grants only
	// hospitals: nothing to match against, so the row set must be empty.
	sc := &Scope{HospitalIDs: []uuid.UUID{uuid.New()}}
	f := Filter{OrganizationColumn: "o.id"}

	q, _, _ := f.Append(sc, `SELECT * FROM organization o WHERE true`, nil, 1)
	if !strings.HasSuffix(q, ` AND false`) {
		t.Errorf("expected fail-closed clause, got: %s", q)
	}
}
