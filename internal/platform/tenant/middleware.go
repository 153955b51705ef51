package tenant

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DevFaso/hms-sub012/internal/platform/auth"
)

// HospitalHeader selects the hospital a request acts within. The selection
// is validated against the resolved scope; it never widens it.
const HospitalHeader = "X-Hospital-ID"

// Middleware resolves the tenant scope for every authenticated request and
// stores it in the request context. Resolution is per request by design:
// a revoke committed after resolution wins on the next request.
func Middleware(resolver *Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID := auth.UserIDFromContext(ctx)
			if userID == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated principal")
			}

			requested, err := requestedHospital(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital identifier")
			}

			sc, err := resolver.Resolve(ctx, userID, auth.UsernameFromContext(ctx), requested)
			if err != nil {
				if errors.Is(err, ErrForbiddenHospitalSelection) {
					return echo.NewHTTPError(http.StatusForbidden, "hospital selection not permitted")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "tenant resolution failed")
			}

			c.SetRequest(c.Request().WithContext(NewContext(ctx, sc)))
			return next(c)
		}
	}
}

// requestedHospital extracts the explicit active-hospital selection: the
// X-Hospital-ID header first, then the hospital claim set by the auth layer.
func requestedHospital(c echo.Context) (*uuid.UUID, error) {
	raw := c.Request().Header.Get(HospitalHeader)
	if raw == "" {
		raw, _ = c.Get("jwt_hospital_id").(string)
	}
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
