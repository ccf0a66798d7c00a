package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/martclinic/clinic-auth/internal/core/service"
)

// ActivityHandler exposes the audit log read side. Gated on canViewActivity
// by the router.
type ActivityHandler struct {
	users *service.UserService
}

func NewActivityHandler(users *service.UserService) *ActivityHandler {
	return &ActivityHandler{users: users}
}

// Recent lists audit entries, newest first.
//
// @Summary      Recent activity
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query  int  false  "Filter by user id"
// @Param        limit    query  int  false  "Max entries (default 100)"
// @Success      200  {array}  domain.ActivityRecord
// @Failure      403  {object}  errorResponse
// @Router       /activity [get]
func (h *ActivityHandler) Recent(c echo.Context) error {
	var userID int64
	if raw := c.QueryParam("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		userID = parsed
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, err := h.users.Activity(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
