package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/DevFaso/hms-sub012/internal/platform/auth"
)

func doRequest(t *testing.T, src AssignmentSource, userID uuid.UUID, hospitalHeader string) (*httptest.ResponseRecorder, *Scope) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	if hospitalHeader != "" {
		req.Header.Set(HospitalHeader, hospitalHeader)
	}
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
		ctx = context.WithValue(ctx, auth.UsernameKey, "tester")
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *Scope
	handler := Middleware(NewResolver(src, zerolog.Nop()))(func(c echo.Context) error {
		captured = FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, captured
}

func TestMiddleware_ResolvesScopeIntoContext(t *testing.T) {
	userID := uuid.New()
	h := uuid.New()
	src := &mockSource{views: map[uuid.UUID][]AssignmentView{
		userID: {{ID: uuid.New(), RoleCode: "ROLE_DOCTOR", HospitalID: &h}},
	}}

	rec, sc := doRequest(t, src, userID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sc == nil || !sc.AllowsHospital(h) {
		t.Error("resolved scope missing from request context")
	}
}

func TestMiddleware_RejectsUnauthenticated(t *testing.T) {
	rec, _ := doRequest(t, &mockSource{}, uuid.Nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddleware_ForbiddenHospitalSelectionIs403(t *testing.T) {
	userID := uuid.New()
	h := uuid.New()
	src := &mockSource{views: map[uuid.UUID][]AssignmentView{
		userID: {{ID: uuid.New(), RoleCode: "ROLE_DOCTOR", HospitalID: &h}},
	}}

	rec, _ := doRequest(t, src, userID, uuid.NewString())
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 (not 404: existence must not leak)", rec.Code)
	}
}

func TestMiddleware_BadHospitalHeaderIs400(t *testing.T) {
	userID := uuid.New()
	rec, _ := doRequest(t, &mockSource{views: map[uuid.UUID][]AssignmentView{}}, userID, "not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMiddleware_ValidSelectionSetsActiveHospital(t *testing.T) {
	userID := uuid.New()
	h := uuid.New()
	src := &mockSource{views: map[uuid.UUID][]AssignmentView{
		userID: {{ID: uuid.New(), RoleCode: "ROLE_DOCTOR", HospitalID: &h}},
	}}

	rec, sc := doRequest(t, src, userID, h.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sc.ActiveHospitalID == nil || *sc.ActiveHospitalID != h {
		t.Error("active hospital not recorded")
	}
}
