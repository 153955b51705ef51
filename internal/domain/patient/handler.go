package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
	"github.com/DevFaso/hms-sub012/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.Create)
	api.GET("/patients", h.List)
	api.GET("/patients/:id", h.Get)
	api.PUT("/patients/:id", h.Update)
	api.DELETE("/patients/:id", h.Delete)
	api.POST("/patients/:id/registrations", h.Register)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sc := tenant.FromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), sc, &p); err != nil {
		if errors.Is(err, tenant.ErrForbiddenTenantAccess) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sc := tenant.FromContext(c.Request().Context())
	p, err := h.svc.Get(c.Request().Context(), sc, id)
	if err != nil {
		// Out-of-scope and nonexistent are indistinguishable on reads.
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	sc := tenant.FromContext(c.Request().Context())

	var (
		patients []*Patient
		total    int
		err      error
	)
	if name := c.QueryParam("name"); name != "" {
		patients, total, err = h.svc.Search(c.Request().Context(), sc, name, p.Limit, p.Offset)
	} else {
		patients, total, err = h.svc.List(c.Request().Context(), sc, p.Limit, p.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, p.Limit, p.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	sc := tenant.FromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), sc, &p); err != nil {
		if errors.Is(err, tenant.ErrForbiddenTenantAccess) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sc := tenant.FromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), sc, id); err != nil {
		if errors.Is(err, tenant.ErrForbiddenTenantAccess) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type registerRequest struct {
	HospitalID uuid.UUID `json:"hospital_id"`
}

func (h *Handler) Register(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.HospitalID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id is required")
	}
	sc := tenant.FromContext(c.Request().Context())
	reg, err := h.svc.Register(c.Request().Context(), sc, patientID, req.HospitalID)
	if err != nil {
		if errors.Is(err, tenant.ErrForbiddenTenantAccess) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusCreated, reg)
}
