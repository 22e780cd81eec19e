package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/excellense/api/internal/api/handler"
	"github.com/excellense/api/internal/api/middleware"
	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
	"github.com/excellense/api/internal/infrastructure/http/handlers"

	_ "github.com/excellense/api/docs"
)

// Dependencies is everything the router needs to build its handlers.
type Dependencies struct {
	Log          zerolog.Logger
	Tokens       ports.TokenService
	Auth         ports.AuthService
	Requests     ports.AdminRequestService
	Users        ports.UserService
	Analyses     ports.AnalysisService
	Audit        ports.AuditService
	HealthChecks map[string]handlers.Pinger
	CORSOrigins  []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("excellense"))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Requests)
	adminHandler := handler.NewAdminHandler(deps.Requests, deps.Users, deps.Analyses, deps.Audit)
	analysisHandler := handler.NewAnalysisHandler(deps.Analyses)

	authenticated := middleware.Auth(deps.Tokens)
	superAdminOnly := middleware.RBAC(domain.RoleSuperAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/admin-requests", authHandler.SubmitAdminRequest)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authenticated, middleware.RBAC())

	// --- Admin routes ---
	admin := api.Group("/admin", authenticated)
	admin.GET("/admin-requests", adminHandler.ListRequests, superAdminOnly)
	admin.POST("/admin-requests/:id/approve", adminHandler.Approve, superAdminOnly)
	admin.POST("/admin-requests/:id/reject", adminHandler.Reject, superAdminOnly)
	admin.GET("/users", adminHandler.ListUsers, staff)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole, staff)
	admin.GET("/analyses", adminHandler.ListAnalyses, staff)
	admin.GET("/audit", adminHandler.ListAudit, superAdminOnly)

	// --- Chart analyses ---
	charts := api.Group("/chart-analysis", authenticated, middleware.RBAC())
	charts.POST("", analysisHandler.Save)
	charts.GET("", analysisHandler.ListOwn)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			} else if v.Status >= http.StatusBadRequest {
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
