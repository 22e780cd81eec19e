package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/api/middleware"
	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, email, password, role string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, who domain.Identity) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, who domain.Identity) (*domain.User, error) {
	return s.meFn(ctx, who)
}

type stubRequestService struct {
	submitFn  func(ctx context.Context, username, email, password, passKey string) (*domain.AdminRequest, error)
	approveFn func(ctx context.Context, actor domain.Identity, id string) (*domain.User, error)
	rejectFn  func(ctx context.Context, actor domain.Identity, id, reason string) (*domain.AdminRequest, error)
	listFn    func(ctx context.Context, actor domain.Identity, status string) ([]*domain.AdminRequest, error)
}

func (s *stubRequestService) Submit(ctx context.Context, username, email, password, passKey string) (*domain.AdminRequest, error) {
	return s.submitFn(ctx, username, email, password, passKey)
}

func (s *stubRequestService) Approve(ctx context.Context, actor domain.Identity, id string) (*domain.User, error) {
	return s.approveFn(ctx, actor, id)
}

func (s *stubRequestService) Reject(ctx context.Context, actor domain.Identity, id, reason string) (*domain.AdminRequest, error) {
	return s.rejectFn(ctx, actor, id, reason)
}

func (s *stubRequestService) List(ctx context.Context, actor domain.Identity, status string) ([]*domain.AdminRequest, error) {
	return s.listFn(ctx, actor, status)
}

type stubUserService struct {
	listFn       func(ctx context.Context, actor domain.Identity) ([]*domain.User, error)
	changeRoleFn func(ctx context.Context, actor domain.Identity, id, role string) (*domain.User, error)
}

func (s *stubUserService) ListUsers(ctx context.Context, actor domain.Identity) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) ChangeRole(ctx context.Context, actor domain.Identity, id, role string) (*domain.User, error) {
	return s.changeRoleFn(ctx, actor, id, role)
}

func (s *stubUserService) SeedSuperAdmin(context.Context, string, string, string) (bool, error) {
	return false, nil
}

type stubAnalysisService struct {
	saveFn    func(ctx context.Context, actor domain.Identity, in ports.SaveAnalysisInput) (*domain.ChartAnalysis, error)
	listOwnFn func(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error)
	listAllFn func(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error)
}

func (s *stubAnalysisService) Save(ctx context.Context, actor domain.Identity, in ports.SaveAnalysisInput) (*domain.ChartAnalysis, error) {
	return s.saveFn(ctx, actor, in)
}

func (s *stubAnalysisService) ListOwn(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error) {
	return s.listOwnFn(ctx, actor)
}

func (s *stubAnalysisService) ListAll(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error) {
	return s.listAllFn(ctx, actor)
}

type stubAuditService struct {
	listFn func(ctx context.Context, actor domain.Identity, limit int) ([]*domain.AuditEvent, error)
}

func (s *stubAuditService) Record(context.Context, domain.AuditEvent) error { return nil }

func (s *stubAuditService) List(ctx context.Context, actor domain.Identity, limit int) ([]*domain.AuditEvent, error) {
	return s.listFn(ctx, actor, limit)
}

// newContext builds an Echo context for method/target with an optional JSON body
// and, when who is non-nil, an authenticated identity.
func newContext(method, target string, body io.Reader, who *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if who != nil {
		middleware.SetIdentity(c, *who)
	}
	return c, rec
}

var (
	superAdmin = &domain.Identity{UserID: "sa-1", Role: domain.RoleSuperAdmin}
	anAdmin    = &domain.Identity{UserID: "ad-1", Role: domain.RoleAdmin}
	aUser      = &domain.Identity{UserID: "us-1", Role: domain.RoleUser}
)
