package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
)

// DashboardRepo — счетчики для личных кабинетов.
type DashboardRepo interface {
	CountByStatus(ctx context.Context, userID uuid.UUID, status models.ProjectStatus) (int, error)
	CountPendingBidsOnClientJobs(ctx context.Context, clientID uuid.UUID) (int, error)
	CountPendingBidsByEngineer(ctx context.Context, engineerID uuid.UUID) (int, error)
	TotalEarnings(ctx context.Context, engineerID uuid.UUID) (float64, error)
}

// DashboardService собирает метрики для главной страницы кабинета.
type DashboardService struct {
	repo DashboardRepo
}

func NewDashboardService(repo DashboardRepo) *DashboardService {
	return &DashboardService{repo: repo}
}

type ClientMetrics struct {
	ActiveProjects    int `json:"active_projects"`
	CompletedProjects int `json:"completed_projects"`
	PendingBids       int `json:"pending_bids"`
}

type EngineerMetrics struct {
	ActiveProjects    int     `json:"active_projects"`
	CompletedProjects int     `json:"completed_projects"`
	PendingBids       int     `json:"pending_bids"`
	TotalEarnings     float64 `json:"total_earnings"`
}

func (s *DashboardService) ClientMetrics(ctx context.Context, clientID uuid.UUID) (*ClientMetrics, error) {
	active, err := s.repo.CountByStatus(ctx, clientID, models.ProjectStatusInProgress)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	completed, err := s.repo.CountByStatus(ctx, clientID, models.ProjectStatusCompleted)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	pending, err := s.repo.CountPendingBidsOnClientJobs(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	return &ClientMetrics{
		ActiveProjects:    active,
		CompletedProjects: completed,
		PendingBids:       pending,
	}, nil
}

func (s *DashboardService) EngineerMetrics(ctx context.Context, engineerID uuid.UUID) (*EngineerMetrics, error) {
	active, err := s.repo.CountByStatus(ctx, engineerID, models.ProjectStatusInProgress)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	completed, err := s.repo.CountByStatus(ctx, engineerID, models.ProjectStatusCompleted)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	pending, err := s.repo.CountPendingBidsByEngineer(ctx, engineerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	earnings, err := s.repo.TotalEarnings(ctx, engineerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "метрики кабинета")
	}
	return &EngineerMetrics{
		ActiveProjects:    active,
		CompletedProjects: completed,
		PendingBids:       pending,
		TotalEarnings:     earnings,
	}, nil
}
