package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/api/metrics"
	"github.com/excellense/api/internal/core/ports"
)

// AdminHandler serves the /api/admin routes.
type AdminHandler struct {
	requests ports.AdminRequestService
	users    ports.UserService
	analyses ports.AnalysisService
	audit    ports.AuditService
}

func NewAdminHandler(
	requests ports.AdminRequestService,
	users ports.UserService,
	analyses ports.AnalysisService,
	audit ports.AuditService,
) *AdminHandler {
	return &AdminHandler{requests: requests, users: users, analyses: analyses, audit: audit}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// ListRequests returns admin requests filtered by status.
//
// @Summary      List admin requests
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending (default), approved or rejected"
// @Success      200     {array}   domain.AdminRequest
// @Failure      400     {object}  messageResponse
// @Failure      403     {object}  messageResponse
// @Router       /api/admin/admin-requests [get]
func (h *AdminHandler) ListRequests(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	list, err := h.requests.List(c.Request().Context(), who, c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(list))
}

// Approve turns a pending request into an admin account.
//
// @Summary      Approve an admin request
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      201  {object}  userResponse
// @Failure      400  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/admin/admin-requests/{id}/approve [post]
func (h *AdminHandler) Approve(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	admin, err := h.requests.Approve(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.AdminRequestsTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusCreated, userResponse{Message: "Admin approved and created", User: admin})
}

// Reject closes a pending request with an optional reason.
//
// @Summary      Reject an admin request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true   "Request ID"
// @Param        body  body      rejectRequest  false  "Rejection reason"
// @Success      200   {object}  adminRequestResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/admin/admin-requests/{id}/reject [post]
func (h *AdminHandler) Reject(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req rejectRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return err
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
	}

	rejected, err := h.requests.Reject(c.Request().Context(), who, c.Param("id"), req.Reason)
	if err != nil {
		return err
	}

	metrics.AdminRequestsTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusOK, adminRequestResponse{Message: "Request rejected", Request: rejected})
}

// ListUsers returns every account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  messageResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

// ChangeRole sets a user's role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.ChangeRole(c.Request().Context(), who, c.Param("id"), req.Role)
	if err != nil {
		return err
	}

	metrics.RoleChangesTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusOK, userResponse{Message: "Role updated successfully", User: user})
}

// ListAnalyses returns every saved chart analysis.
//
// @Summary      List all chart analyses
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ChartAnalysis
// @Failure      403  {object}  messageResponse
// @Router       /api/admin/analyses [get]
func (h *AdminHandler) ListAnalyses(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	list, err := h.analyses.ListAll(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(list))
}

// ListAudit returns the latest audit events.
//
// @Summary      List audit events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of events (default 50, max 200)"
// @Success      200    {array}   domain.AuditEvent
// @Failure      400    {object}  messageResponse
// @Failure      403    {object}  messageResponse
// @Router       /api/admin/audit [get]
func (h *AdminHandler) ListAudit(c echo.Context) error {
	who, err := identity(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}

	events, err := h.audit.List(c.Request().Context(), who, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(events))
}

// nonNil makes empty lists render as [] rather than null.
func nonNil[T any](list []*T) []*T {
	if list == nil {
		return []*T{}
	}
	return list
}
