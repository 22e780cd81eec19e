package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/core/domain"
)

// RBAC lets the request through only when the authenticated role is one of
// allowedRoles. With no roles given, any authenticated caller passes.
// It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[who.Role]; !ok {
				return domain.AccessDenied(who.Role)
			}
			return next(c)
		}
	}
}
