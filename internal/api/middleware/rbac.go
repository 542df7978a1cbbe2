package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotech/circulation-api/internal/core/domain"
)

// RBAC restricts a route to the given roles. It reads the session injected
// by Auth, so it must be registered after it in the middleware chain.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, _ := c.Get("session").(*domain.Session)
			if session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			if _, ok := allowed[session.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
