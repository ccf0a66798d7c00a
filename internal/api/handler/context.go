package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/martclinic/clinic-auth/internal/api/middleware"
	"github.com/martclinic/clinic-auth/internal/core/domain"
	"github.com/martclinic/clinic-auth/internal/core/service"
)

// sessionUser extracts the user injected by the Session middleware and
// fast-fails before any service call: a nil user means the middleware did
// not run or did not resolve, and the handler must not proceed.
func sessionUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// requestMeta captures the client attributes stamped onto audit entries.
func requestMeta(c echo.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
