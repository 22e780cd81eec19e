package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/excellense/api/internal/core/domain"
	"github.com/excellense/api/internal/core/ports"
)

type AnalysisService struct {
	repo ports.AnalysisRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewAnalysisService(repo ports.AnalysisRepository, log zerolog.Logger) *AnalysisService {
	return &AnalysisService{repo: repo, log: log, now: time.Now}
}

// Save stores an analysis owned by actor.
func (s *AnalysisService) Save(ctx context.Context, actor domain.Identity, in ports.SaveAnalysisInput) (*domain.ChartAnalysis, error) {
	if !actor.Role.Valid() {
		return nil, domain.AccessDenied(actor.Role)
	}
	if strings.TrimSpace(in.UploadID) == "" || strings.TrimSpace(in.ChartType) == "" ||
		strings.TrimSpace(in.XAxis) == "" || strings.TrimSpace(in.YAxis) == "" ||
		strings.TrimSpace(in.Summary) == "" {
		return nil, domain.ErrMissingFields
	}

	created, err := s.repo.Create(ctx, &domain.ChartAnalysis{
		UserID:           actor.UserID,
		UploadID:         in.UploadID,
		ChartType:        in.ChartType,
		XAxis:            in.XAxis,
		YAxis:            in.YAxis,
		Summary:          in.Summary,
		ChartImageBase64: in.ChartImageBase64,
		CreatedAt:        s.now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to save chart analysis")
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	s.log.Info().Str("analysis_id", created.ID).Str("user_id", actor.UserID).Str("chart_type", created.ChartType).Msg("chart analysis saved")
	return created, nil
}

func (s *AnalysisService) ListOwn(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error) {
	if !actor.Role.Valid() || actor.UserID == "" {
		return nil, domain.AccessDenied(actor.Role)
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}

// ListAll returns every analysis. Admins and superadmins only.
func (s *AnalysisService) ListAll(ctx context.Context, actor domain.Identity) ([]*domain.ChartAnalysis, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, "")
}
