package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/martclinic/clinic-auth/internal/api/metrics"
	"github.com/martclinic/clinic-auth/internal/core/domain"
)

// RequireCapability gates a route on one capability of the session user's
// role. Must run after Session; a request with no resolved user is treated
// as holding no capabilities at all.
func RequireCapability(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get(userContextKey).(*domain.User)
			if user == nil || !domain.HasPermission(user.Role, capability) {
				metrics.PermissionDenialsTotal.WithLabelValues(string(capability)).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Session, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

// SetCurrentUser injects a user directly. Exposed for handler tests that
// bypass the Session middleware.
func SetCurrentUser(c echo.Context, user *domain.User) {
	c.Set(userContextKey, user)
}
