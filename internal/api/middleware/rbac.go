package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

// RBAC enforces role-based access control. The allowed set is fixed per
// route group; a caller outside it receives 403 without reaching the
// handler, so restricted handlers never observe the request.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permission")
			}
			return next(c)
		}
	}
}
