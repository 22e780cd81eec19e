package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

func TestAnalysisHandler_Save(t *testing.T) {
	var got ports.SaveAnalysisInput
	svc := &stubAnalysisService{
		saveFn: func(ctx context.Context, actor domain.Identity, in ports.SaveAnalysisInput) (*domain.ChartAnalysis, error) {
			got = in
			return &domain.ChartAnalysis{ID: "a1", UserID: actor.UserID, ChartType: in.ChartType}, nil
		},
	}
	handler := NewAnalysisHandler(svc)

	body := `{"upload_id":"up1","chart_type":"bar","x_axis":"month","y_axis":"sales","summary":"Sales grow."}`
	c, rec := newContext(http.MethodPost, "/api/chart-analysis", strings.NewReader(body), aUser)
	if err := handler.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.UploadID != "up1" || got.YAxis != "sales" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestAnalysisHandler_Save_Validation(t *testing.T) {
	svc := &stubAnalysisService{
		saveFn: func(context.Context, domain.Identity, ports.SaveAnalysisInput) (*domain.ChartAnalysis, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAnalysisHandler(svc)

	c, _ := newContext(http.MethodPost, "/api/chart-analysis", strings.NewReader(`{"chart_type":"bar"}`), aUser)
	err := handler.Save(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "upload_id is required") || !strings.Contains(msg, "summary is required") {
		t.Fatalf("expected field messages, got %q", msg)
	}
}

func TestAnalysisHandler_ListOwn(t *testing.T) {
	svc := &stubAnalysisService{
		listOwnFn: func(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error) {
			return []*domain.ChartAnalysis{{ID: "a1", UserID: actor.UserID}}, nil
		},
	}
	handler := NewAnalysisHandler(svc)

	c, rec := newContext(http.MethodGet, "/api/chart-analysis", nil, aUser)
	if err := handler.ListOwn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"user_id":"us-1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
