package patient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

// mockRepo mirrors the scoped read behavior of the SQL implementation: a
// row is visible when the scope covers its direct org, direct hospital, or
// an active registration hospital.
type mockRepo struct {
	patients      map[uuid.UUID]*Patient
	registrations map[uuid.UUID][]*Registration
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		patients:      make(map[uuid.UUID]*Patient),
		registrations: make(map[uuid.UUID][]*Registration),
	}
}

func (m *mockRepo) visible(sc *tenant.Scope, p *Patient) bool {
	regs, _ := m.RegistrationHospitals(context.Background(), p.ID)
	return sc.AllowsEntity(p.OrganizationID, p.HospitalID, regs)
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok || p.IsDeleted {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockRepo) FindVisible(ctx context.Context, sc *tenant.Scope, id uuid.UUID) (*Patient, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.visible(sc, p) {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockRepo) List(_ context.Context, sc *tenant.Scope, _, _ int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if !p.IsDeleted && m.visible(sc, p) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Search(ctx context.Context, sc *tenant.Scope, name string, limit, offset int) ([]*Patient, int, error) {
	all, _, err := m.List(ctx, sc, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	var out []*Patient
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.GivenName+" "+p.FamilyName), strings.ToLower(name)) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := m.patients[id]; ok {
		p.IsDeleted = true
	}
	return nil
}

func (m *mockRepo) AddRegistration(_ context.Context, r *Registration) error {
	r.ID = uuid.New()
	m.registrations[r.PatientID] = append(m.registrations[r.PatientID], r)
	return nil
}

func (m *mockRepo) RegistrationHospitals(_ context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, r := range m.registrations[patientID] {
		if r.Active {
			ids = append(ids, r.HospitalID)
		}
	}
	return ids, nil
}

func scopeFor(hospitals ...uuid.UUID) *tenant.Scope {
	return &tenant.Scope{UserID: uuid.New(), HospitalIDs: hospitals}
}

func seedPatient(repo *mockRepo, mrn string, hospitalID *uuid.UUID, orgID *uuid.UUID) *Patient {
	p := &Patient{
		ID: uuid.New(), MRN: mrn, GivenName: "Test", FamilyName: "Patient",
		HospitalID: hospitalID, OrganizationID: orgID,
	}
	repo.patients[p.ID] = p
	return p
}

func TestEmptyScopeSeesNothing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	hosp := uuid.New()
	seedPatient(repo, "MRN-1", &hosp, nil)

	got, total, err := svc.List(context.Background(), &tenant.Scope{UserID: uuid.New()}, 50, 0)
	if err != nil {
		t.Fatalf("empty scope must not error: %v", err)
	}
	if len(got) != 0 || total != 0 {
		t.Errorf("empty scope returned %d rows, want 0", len(got))
	}
}

func TestSuperAdminSeesEverything(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h1, h2 := uuid.New(), uuid.New()
	seedPatient(repo, "MRN-1", &h1, nil)
	seedPatient(repo, "MRN-2", &h2, nil)

	sc := &tenant.Scope{UserID: uuid.New(), SuperAdmin: true}
	got, _, err := svc.List(context.Background(), sc, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("super admin sees %d rows, want 2", len(got))
	}
}

func TestRegistrationGrantsVisibility(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	home, shared := uuid.New(), uuid.New()

	p := seedPatient(repo, "MRN-1", &home, nil)

	viewer := scopeFor(shared)
	if _, err := svc.Get(ctx, viewer, p.ID); err == nil {
		t.Fatal("patient visible before registration")
	}

	// A user scoped to the home hospital registers the patient at the
	// shared hospital.
	homeStaff := scopeFor(home, shared)
	if _, err := svc.Register(ctx, homeStaff, p.ID, shared); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := svc.Get(ctx, viewer, p.ID)
	if err != nil {
		t.Fatalf("patient should be visible through registration: %v", err)
	}
	if got.ID != p.ID {
		t.Error("wrong patient returned")
	}

	list, _, err := svc.List(ctx, viewer, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("registered hospital list sees %d rows, want 1", len(list))
	}
}

func TestRegisterOutsideScopeForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	home, other := uuid.New(), uuid.New()
	p := seedPatient(repo, "MRN-1", &home, nil)

	_, err := svc.Register(context.Background(), scopeFor(home), p.ID, other)
	if !errors.Is(err, tenant.ErrForbiddenTenantAccess) {
		t.Fatalf("expected ErrForbiddenTenantAccess, got %v", err)
	}
}

func TestCreateOutsideScopeForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	mine, other := uuid.New(), uuid.New()

	p := &Patient{MRN: "MRN-1", GivenName: "A", FamilyName: "B", HospitalID: &other}
	err := svc.Create(context.Background(), scopeFor(mine), p)
	if !errors.Is(err, tenant.ErrForbiddenTenantAccess) {
		t.Fatalf("expected ErrForbiddenTenantAccess, got %v", err)
	}

	p.HospitalID = &mine
	if err := svc.Create(context.Background(), scopeFor(mine), p); err != nil {
		t.Fatalf("in-scope create: %v", err)
	}
}

func TestUpdateChecksRegistrationHospitals(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()
	home, shared := uuid.New(), uuid.New()

	p := seedPatient(repo, "MRN-1", &home, nil)
	repo.registrations[p.ID] = []*Registration{
		{ID: uuid.New(), PatientID: p.ID, HospitalID: shared, Active: true},
	}

	// Staff at the registration hospital may update even without a direct
	// hospital match.
	p.GivenName = "Updated"
	if err := svc.Update(ctx, scopeFor(shared), p); err != nil {
		t.Fatalf("update via registration hospital: %v", err)
	}

	if err := svc.Update(ctx, scopeFor(uuid.New()), p); !errors.Is(err, tenant.ErrForbiddenTenantAccess) {
		t.Fatalf("expected ErrForbiddenTenantAccess, got %v", err)
	}
}

func TestDeleteOutsideScopeForbidden(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	home := uuid.New()
	p := seedPatient(repo, "MRN-1", &home, nil)

	if err := svc.Delete(context.Background(), scopeFor(uuid.New()), p.ID); !errors.Is(err, tenant.ErrForbiddenTenantAccess) {
		t.Fatalf("expected ErrForbiddenTenantAccess, got %v", err)
	}
	if err := svc.Delete(context.Background(), scopeFor(home), p.ID); err != nil {
		t.Fatalf("in-scope delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), p.ID); err == nil {
		t.Error("deleted patient still readable")
	}
}

func TestOrganizationScopeVisibility(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	org := uuid.New()
	seedPatient(repo, "MRN-1", nil, &org)

	sc := &tenant.Scope{UserID: uuid.New(), OrganizationIDs: []uuid.UUID{org}}
	got, _, err := svc.List(context.Background(), sc, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("organization scope sees %d rows, want 1", len(got))
	}
}
