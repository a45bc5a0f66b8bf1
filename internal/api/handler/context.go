package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/core/domain"
	"github.com/petvax/vaccination-system/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both the user id and
// a valid role must be present, which proves the middleware ran.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(domain.Role)

	if userID == "" || !role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Actor{UserID: userID, Role: role}, nil
}
