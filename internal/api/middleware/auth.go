package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer token and stores the caller's identity in the
// context. Failures are returned as domain errors for the error handler to render.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrMissingToken
			}

			who, err := tokens.Verify(raw)
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(identityKey, *who)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	who, ok := c.Get(identityKey).(domain.Identity)
	return who, ok && who.UserID != ""
}

// SetIdentity stores who in the context the way Auth does.
func SetIdentity(c echo.Context, who domain.Identity) {
	c.Set(identityKey, who)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
