package facility

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

type mockOrgRepo struct {
	orgs map[uuid.UUID]*Organization
}

func newMockOrgRepo() *mockOrgRepo {
	return &mockOrgRepo{orgs: make(map[uuid.UUID]*Organization)}
}

func (m *mockOrgRepo) Create(_ context.Context, o *Organization) error {
	o.ID = uuid.New()
	m.orgs[o.ID] = o
	return nil
}

func (m *mockOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*Organization, error) {
	o, ok := m.orgs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (m *mockOrgRepo) Update(_ context.Context, o *Organization) error {
	m.orgs[o.ID] = o
	return nil
}

func (m *mockOrgRepo) List(_ context.Context, _, _ int) ([]*Organization, int, error) {
	var out []*Organization
	for _, o := range m.orgs {
		out = append(out, o)
	}
	return out, len(out), nil
}

type mockHospitalRepo struct {
	hospitals map[uuid.UUID]*Hospital
}

func newMockHospitalRepo() *mockHospitalRepo {
	return &mockHospitalRepo{hospitals: make(map[uuid.UUID]*Hospital)}
}

func (m *mockHospitalRepo) Create(_ context.Context, h *Hospital) error {
	for _, existing := range m.hospitals {
		if strings.EqualFold(existing.Code, h.Code) {
			return ErrDuplicateHospital
		}
	}
	h.ID = uuid.New()
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockHospitalRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return h, nil
}

func (m *mockHospitalRepo) GetByCode(_ context.Context, code string) (*Hospital, error) {
	for _, h := range m.hospitals {
		if strings.EqualFold(h.Code, code) {
			return h, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockHospitalRepo) FindByCodeOrName(_ context.Context, ref string) (*Hospital, error) {
	for _, h := range m.hospitals {
		if strings.EqualFold(h.Code, ref) || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockHospitalRepo) Update(_ context.Context, h *Hospital) error {
	m.hospitals[h.ID] = h
	return nil
}

// visible mirrors the SQL scope predicate: super admins see everything,
// everyone else sees hospitals granted directly or via their organization.
func (m *mockHospitalRepo) visible(sc *tenant.Scope, h *Hospital) bool {
	if sc.SuperAdmin {
		return true
	}
	if sc.AllowsHospital(h.ID) {
		return true
	}
	return h.OrganizationID != nil && sc.AllowsOrganization(*h.OrganizationID)
}

func (m *mockHospitalRepo) FindVisible(_ context.Context, sc *tenant.Scope, id uuid.UUID) (*Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok || !m.visible(sc, h) {
		return nil, errors.New("not found")
	}
	return h, nil
}

func (m *mockHospitalRepo) List(_ context.Context, sc *tenant.Scope, limit, offset int) ([]*Hospital, int, error) {
	var out []*Hospital
	for _, h := range m.hospitals {
		if m.visible(sc, h) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	total := len(out)

	// The page window cuts the filtered set, as LIMIT/OFFSET does after
	// the WHERE clause.
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *mockHospitalRepo) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]*Hospital, error) {
	var out []*Hospital
	for _, h := range m.hospitals {
		if h.OrganizationID != nil && *h.OrganizationID == orgID {
			out = append(out, h)
		}
	}
	return out, nil
}

type mockDepartmentRepo struct {
	departments map[uuid.UUID]*Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[uuid.UUID]*Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, d *Department) error {
	d.ID = uuid.New()
	m.departments[d.ID] = d
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func (m *mockDepartmentRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID) ([]*Department, error) {
	var out []*Department
	for _, d := range m.departments {
		if d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestService() *Service {
	return NewService(newMockOrgRepo(), newMockHospitalRepo(), newMockDepartmentRepo())
}

func TestCreateHospital(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.CreateHospital(ctx, &Hospital{Name: "General"}); err == nil {
		t.Error("expected error for missing code")
	}
	if err := svc.CreateHospital(ctx, &Hospital{Code: "GEN"}); err == nil {
		t.Error("expected error for missing name")
	}

	orgID := uuid.New()
	if err := svc.CreateHospital(ctx, &Hospital{Code: "GEN", Name: "General", OrganizationID: &orgID}); err == nil {
		t.Error("expected error for unknown organization")
	}

	h := &Hospital{Code: "GEN", Name: "General Hospital"}
	if err := svc.CreateHospital(ctx, h); err != nil {
		t.Fatalf("CreateHospital: %v", err)
	}
	if !h.Active {
		t.Error("new hospital should be active")
	}

	dup := &Hospital{Code: "gen", Name: "Other"}
	if err := svc.CreateHospital(ctx, dup); !errors.Is(err, ErrDuplicateHospital) {
		t.Fatalf("expected ErrDuplicateHospital, got %v", err)
	}
}

func TestResolveHospital(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	h := &Hospital{Code: "GEN", Name: "General Hospital"}
	if err := svc.CreateHospital(ctx, h); err != nil {
		t.Fatal(err)
	}

	t.Run("by id", func(t *testing.T) {
		got, err := svc.ResolveHospital(ctx, &h.ID, "")
		if err != nil {
			t.Fatalf("ResolveHospital: %v", err)
		}
		if got.ID != h.ID {
			t.Error("resolved wrong hospital")
		}
	})

	t.Run("by code case-insensitive", func(t *testing.T) {
		got, err := svc.ResolveHospital(ctx, nil, "gen")
		if err != nil {
			t.Fatalf("ResolveHospital: %v", err)
		}
		if got.ID != h.ID {
			t.Error("resolved wrong hospital")
		}
	})

	t.Run("by name", func(t *testing.T) {
		got, err := svc.ResolveHospital(ctx, nil, "general hospital")
		if err != nil {
			t.Fatalf("ResolveHospital: %v", err)
		}
		if got.ID != h.ID {
			t.Error("resolved wrong hospital")
		}
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := svc.ResolveHospital(ctx, nil, "NOPE")
		if !errors.Is(err, ErrUnresolvedHospital) {
			t.Fatalf("expected ErrUnresolvedHospital, got %v", err)
		}
		if !strings.Contains(err.Error(), "NOPE") {
			t.Errorf("error should echo the reference, got %q", err)
		}
	})

	t.Run("empty reference", func(t *testing.T) {
		_, err := svc.ResolveHospital(ctx, nil, "")
		if !errors.Is(err, ErrUnresolvedHospital) {
			t.Fatalf("expected ErrUnresolvedHospital, got %v", err)
		}
	})
}

func TestListHospitalsScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	org := &Organization{Name: "Metro Health"}
	if err := svc.CreateOrganization(ctx, org); err != nil {
		t.Fatal(err)
	}

	alpha := &Hospital{Code: "AAA", Name: "Alpha"}
	beta := &Hospital{Code: "BBB", Name: "Beta", OrganizationID: &org.ID}
	zeta := &Hospital{Code: "ZZZ", Name: "Zeta"}
	for _, h := range []*Hospital{alpha, beta, zeta} {
		if err := svc.CreateHospital(ctx, h); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("hospital grant survives pagination", func(t *testing.T) {
		// Zeta sorts last of three; the scope predicate must apply
		// before the page window, not to its contents.
		sc := &tenant.Scope{HospitalIDs: []uuid.UUID{zeta.ID}}
		got, total, err := svc.ListHospitals(ctx, sc, 2, 0)
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 {
			t.Errorf("total should count the visible set, got %d", total)
		}
		if len(got) != 1 || got[0].ID != zeta.ID {
			t.Fatalf("expected the granted hospital on the first page, got %+v", got)
		}
	})

	t.Run("organization grant covers its hospitals", func(t *testing.T) {
		sc := &tenant.Scope{OrganizationIDs: []uuid.UUID{org.ID}}
		got, total, err := svc.ListHospitals(ctx, sc, 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 || len(got) != 1 || got[0].ID != beta.ID {
			t.Fatalf("expected only the organization's hospital, got %+v (total %d)", got, total)
		}
	})

	t.Run("super admin sees all", func(t *testing.T) {
		_, total, err := svc.ListHospitals(ctx, &tenant.Scope{SuperAdmin: true}, 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		if total != 3 {
			t.Errorf("expected 3 hospitals, got %d", total)
		}
	})

	t.Run("empty scope sees none", func(t *testing.T) {
		got, total, err := svc.ListHospitals(ctx, &tenant.Scope{}, 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		if total != 0 || len(got) != 0 {
			t.Errorf("empty scope must see zero rows, got %d (total %d)", len(got), total)
		}
	})
}

func TestGetHospitalScoped(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	org := &Organization{Name: "Metro Health"}
	if err := svc.CreateOrganization(ctx, org); err != nil {
		t.Fatal(err)
	}
	h := &Hospital{Code: "GEN", Name: "General Hospital", OrganizationID: &org.ID}
	if err := svc.CreateHospital(ctx, h); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.GetHospital(ctx, &tenant.Scope{HospitalIDs: []uuid.UUID{h.ID}}, h.ID); err != nil {
		t.Errorf("direct grant should see the hospital: %v", err)
	}
	if _, err := svc.GetHospital(ctx, &tenant.Scope{OrganizationIDs: []uuid.UUID{org.ID}}, h.ID); err != nil {
		t.Errorf("organization grant should see the hospital: %v", err)
	}
	if _, err := svc.GetHospital(ctx, &tenant.Scope{HospitalIDs: []uuid.UUID{uuid.New()}}, h.ID); err == nil {
		t.Error("out-of-scope hospital must read as absent")
	}
}

func TestCreateDepartment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	h := &Hospital{Code: "GEN", Name: "General Hospital"}
	if err := svc.CreateHospital(ctx, h); err != nil {
		t.Fatal(err)
	}

	if err := svc.CreateDepartment(ctx, &Department{HospitalID: h.ID, Code: "ICU"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.CreateDepartment(ctx, &Department{HospitalID: uuid.New(), Code: "ICU", Name: "Intensive Care"}); err == nil {
		t.Error("expected error for unknown hospital")
	}

	d := &Department{HospitalID: h.ID, Code: "ICU", Name: "Intensive Care"}
	if err := svc.CreateDepartment(ctx, d); err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}

	got, err := svc.ListDepartments(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Code != "ICU" {
		t.Errorf("unexpected departments: %+v", got)
	}
}
