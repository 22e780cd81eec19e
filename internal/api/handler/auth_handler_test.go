package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/core/domain"
)

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, email, password, role string) (*domain.User, error) {
			if username != "alice" || email != "a@example.com" || password != "secret" || role != "" {
				t.Fatalf("unexpected args: %s %s %s %s", username, email, password, role)
			}
			return &domain.User{ID: "u1", Username: username, Email: email, PasswordHash: "hash", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	body := strings.NewReader(`{"username":"alice","email":"a@example.com","password":"secret"}`)
	c, rec := newContext(http.MethodPost, "/api/auth/register", body, nil)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "User registered successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("response leaks the hash: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_PassesServiceErrors(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/auth/register", strings.NewReader(`{"username":"bob"}`), nil)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/auth/register", strings.NewReader("not-json"), nil)
	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_SubmitAdminRequest(t *testing.T) {
	requests := &stubRequestService{
		submitFn: func(ctx context.Context, username, email, password, passKey string) (*domain.AdminRequest, error) {
			if passKey != "letmein" {
				return nil, domain.ErrInvalidPassKey
			}
			return &domain.AdminRequest{ID: "r1", Username: username, Email: email, Status: domain.RequestPending}, nil
		},
	}
	handler := NewAuthHandler(nil, requests)

	body := `{"username":"alice","email":"a@x.com","password":"pw","admin_pass_key":"letmein"}`
	c, rec := newContext(http.MethodPost, "/api/auth/admin-requests", strings.NewReader(body), nil)
	if err := handler.SubmitAdminRequest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		Request domain.AdminRequest `json:"request"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Request.Status != domain.RequestPending {
		t.Fatalf("expected pending, got %s", resp.Request.Status)
	}

	bad := `{"username":"alice","email":"a@x.com","password":"pw","admin_pass_key":"nope"}`
	c, _ = newContext(http.MethodPost, "/api/auth/admin-requests", strings.NewReader(bad), nil)
	if err := handler.SubmitAdminRequest(c); !errors.Is(err, domain.ErrInvalidPassKey) {
		t.Fatalf("expected ErrInvalidPassKey, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{Username: "alice", Role: domain.RoleAdmin}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret"}`), nil)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, _ := newContext(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"bad"}`), nil)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		meFn: func(ctx context.Context, who domain.Identity) (*domain.User, error) {
			return &domain.User{ID: who.UserID, Username: "carol", Role: who.Role}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newContext(http.MethodGet, "/api/auth/me", nil, aUser)
	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"carol"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/auth/me", nil, nil)
	if err := handler.Me(c); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken without identity, got %v", err)
	}
}

func TestLoginResult(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidCredentials: "invalid_credentials",
		domain.ErrTooManyAttempts:    "throttled",
		domain.ErrMissingFields:      "invalid_request",
		errors.New("boom"):           "error",
	}
	for err, want := range cases {
		if got := loginResult(err); got != want {
			t.Fatalf("loginResult(%v) = %q, want %q", err, got, want)
		}
	}
}
