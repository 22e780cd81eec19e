package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/api/middleware"
	"github.com/excellense/api/internal/core/domain"
)

// identity returns the caller placed in the context by the Auth middleware.
// Its absence means the route was wired without Auth; treat it as unauthenticated.
func identity(c echo.Context) (domain.Identity, error) {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return who, nil
}

// messageResponse is the envelope for operations that only report an outcome.
type messageResponse struct {
	Message string `json:"message"`
}
