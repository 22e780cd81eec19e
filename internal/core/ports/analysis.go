package ports

import (
	"context"

	"github.com/excellense/api/internal/core/domain"
)

// SaveAnalysisInput is the DTO passed from the transport layer to AnalysisService.
type SaveAnalysisInput struct {
	UploadID         string
	ChartType        string
	XAxis            string
	YAxis            string
	Summary          string
	ChartImageBase64 string
}

// AnalysisRepository persists chart analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, a *domain.ChartAnalysis) (*domain.ChartAnalysis, error)
	// ListByUser returns the analyses owned by userID; an empty userID lists all. Newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.ChartAnalysis, error)
}

// AnalysisService stores and lists AI chart summaries.
type AnalysisService interface {
	Save(ctx context.Context, actor domain.Identity, in SaveAnalysisInput) (*domain.ChartAnalysis, error)
	ListOwn(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error)
	ListAll(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error)
}
