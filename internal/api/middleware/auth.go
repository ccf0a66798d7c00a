package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/martclinic/clinic-auth/internal/api/metrics"
	"github.com/martclinic/clinic-auth/internal/core/ports"
)

// userContextKey is where Session stores the resolved *domain.User.
const userContextKey = "auth_user"

// Session resolves the bearer token into a live user and injects it into the
// request context. Resolution re-reads the user from the store, so a token
// for a deleted or deactivated account is rejected even before it expires.
func Session(validator ports.SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user := validator.Resolve(c.Request().Context(), parts[1])
			if user == nil {
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}
			metrics.SessionResolutionsTotal.WithLabelValues("ok").Inc()

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}
