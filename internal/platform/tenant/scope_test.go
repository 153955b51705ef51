package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestScope_Empty(t *testing.T) {
	if !(&Scope{}).Empty() {
		t.Error("zero scope should be empty")
	}
	if (&Scope{SuperAdmin: true}).Empty() {
		t.Error("super-admin scope is never empty")
	}
	if (&Scope{HospitalIDs: []uuid.UUID{uuid.New()}}).Empty() {
		t.Error("scope with a hospital is not empty")
	}
}

func TestScope_AllowsHospital(t *testing.T) {
	h1 := uuid.New()
	h2 := uuid.New()

	sc := &Scope{HospitalIDs: []uuid.UUID{h1}}
	if !sc.AllowsHospital(h1) {
		t.Error("permitted hospital rejected")
	}
	if sc.AllowsHospital(h2) {
		t.Error("unpermitted hospital allowed")
	}

	super := &Scope{SuperAdmin: true}
	if !super.AllowsHospital(h2) {
		t.Error("super-admin must allow any hospital")
	}
}

func TestScope_AllowsEntity_DirectHospital(t *testing.T) {
	h := uuid.New()
	sc := &Scope{HospitalIDs: []uuid.UUID{h}}

	if !sc.AllowsEntity(nil, &h, nil) {
		t.Error("entity with permitted direct hospital should be visible")
	}

	other := uuid.New()
	if sc.AllowsEntity(nil, &other, nil) {
		t.Error("entity at an unpermitted hospital should not be visible")
	}
}

func TestScope_AllowsEntity_Organization(t *testing.T) {
	org := uuid.New()
	sc := &Scope{OrganizationIDs: []uuid.UUID{org}}

	if !sc.AllowsEntity(&org, nil, nil) {
		t.Error("entity in a permitted organization should be visible")
	}
}

func TestScope_AllowsEntity_ViaRegistration(t *testing.T) {
	h := uuid.New()
	sc := &Scope{HospitalIDs: []uuid.UUID{h}}

	// No direct tenancy at all, but an active registration at a permitted
	// hospital makes the entity visible.
	if !sc.AllowsEntity(nil, nil, []uuid.UUID{uuid.New(), h}) {
		t.Error("entity registered at a permitted hospital should be visible")
	}
	if sc.AllowsEntity(nil, nil, []uuid.UUID{uuid.New()}) {
		t.Error("entity registered only elsewhere should not be visible")
	}
}

func TestScope_AllowsEntity_EmptyScopeFailsClosed(t *testing.T) {
	sc := &Scope{}
	h := uuid.New()
	if sc.AllowsEntity(&h, &h, []uuid.UUID{h}) {
		t.Error("empty scope must deny everything")
	}
}

func TestFromContext_MissingScopeFailsClosed(t *testing.T) {
	sc := FromContext(context.Background())
	if sc == nil {
		t.Fatal("FromContext must never return nil")
	}
	if sc.SuperAdmin || !sc.Empty() {
		t.Error("missing scope must resolve to an empty, fail-closed scope")
	}
}

func TestNewContext_RoundTrip(t *testing.T) {
	want := &Scope{UserID: uuid.New(), SuperAdmin: true}
	ctx := NewContext(context.Background(), want)
	if got := FromContext(ctx); got != want {
		t.Error("scope did not round-trip through context")
	}
}
