package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/api/metrics"
	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

// AuthHandler serves the public auth routes and /auth/me.
type AuthHandler struct {
	authService    ports.AuthService
	requestService ports.AdminRequestService
}

func NewAuthHandler(authService ports.AuthService, requestService ports.AdminRequestService) *AuthHandler {
	return &AuthHandler{authService: authService, requestService: requestService}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type adminRequestRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	AdminPassKey string `json:"admin_pass_key"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type adminRequestResponse struct {
	Message string               `json:"message"`
	Request *domain.AdminRequest `json:"request"`
}

// Register creates a new user account with role "user".
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, userResponse{Message: "User registered successfully", User: user})
}

// SubmitAdminRequest files a request for an admin account.
//
// @Summary      Request an admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      adminRequestRequest  true  "Admin request details and passkey"
// @Success      201   {object}  adminRequestResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/auth/admin-requests [post]
func (h *AuthHandler) SubmitAdminRequest(c echo.Context) error {
	var req adminRequestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	created, err := h.requestService.Submit(c.Request().Context(), req.Username, req.Email, req.Password, req.AdminPassKey)
	if err != nil {
		return err
	}

	metrics.AdminRequestsTotal.WithLabelValues("submitted").Inc()
	return c.JSON(http.StatusCreated, adminRequestResponse{
		Message: "Admin registration request submitted. Await superadmin approval.",
		Request: created,
	})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Me returns the authenticated user's account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.Is(err, domain.ErrMissingFields):
		return "invalid_request"
	default:
		return "error"
	}
}
