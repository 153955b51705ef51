package assignment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevFaso/hms-sub012/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard-config", h.DashboardConfig)

	adminGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	adminGroup.POST("/assignments", h.Grant)
	adminGroup.GET("/assignments/:id", h.Get)
	adminGroup.DELETE("/assignments/:id", h.Revoke)
	adminGroup.POST("/assignments/:id/confirm", h.Confirm)
	adminGroup.GET("/users/:id/assignments", h.ListForUser)
}

type grantRequest struct {
	UserID         uuid.UUID  `json:"user_id"`
	RoleID         *uuid.UUID `json:"role_id,omitempty"`
	RoleName       string     `json:"role_name,omitempty"`
	HospitalID     *uuid.UUID `json:"hospital_id,omitempty"`
	HospitalName   string     `json:"hospital_name,omitempty"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	AssignmentCode *string    `json:"assignment_code,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
}

func (h *Handler) Grant(c echo.Context) error {
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if (req.RoleID == nil) == (req.RoleName == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "exactly one of role_id and role_name is required")
	}

	actor := auth.UserIDFromContext(c.Request().Context())
	a, err := h.svc.Grant(c.Request().Context(), GrantRequest{
		UserID:         req.UserID,
		RoleID:         req.RoleID,
		RoleRef:        req.RoleName,
		HospitalID:     req.HospitalID,
		HospitalRef:    req.HospitalName,
		DepartmentID:   req.DepartmentID,
		AssignmentCode: req.AssignmentCode,
		StartDate:      req.StartDate,
		RegisteredByID: &actor,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAssignment) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		// Unresolved references and invalid role/hospital combinations are
		// caller input; the message echoes the offending identifier.
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "assignment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Revoke(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.UserIDFromContext(c.Request().Context())
	if err := h.svc.Revoke(c.Request().Context(), id, actor, c.QueryParam("reason")); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Confirm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Confirm(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForUser returns a user's active assignments, or the full history when
// all=true is passed.
func (h *Handler) ListForUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	var list []*Assignment
	if c.QueryParam("all") == "true" {
		list, err = h.svc.ListAll(c.Request().Context(), userID)
	} else {
		list, err = h.svc.ListActive(c.Request().Context(), userID)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if list == nil {
		list = []*Assignment{}
	}
	return c.JSON(http.StatusOK, list)
}

// DashboardConfig returns the merged permission view for the caller.
func (h *Handler) DashboardConfig(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	if userID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	cfg, err := h.svc.MergedPermissions(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}
