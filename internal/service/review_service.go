package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
	"github.com/ignatzorin/levkonnect-backend/internal/validation"
)

// ReviewRepo — контракт хранилища отзывов.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsByReviewer(ctx context.Context, projectID, reviewerID uuid.UUID) (bool, error)
	ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error)
}

// ReviewService — отзывы по завершенным проектам.
type ReviewService struct {
	reviews  ReviewRepo
	projects ProjectRepo
}

func NewReviewService(reviews ReviewRepo, projects ProjectRepo) *ReviewService {
	return &ReviewService{reviews: reviews, projects: projects}
}

type ReviewInput struct {
	ProjectID uuid.UUID
	Rating    int
	Comment   *string
}

// Create оставляет отзыв: только сторона завершенного проекта,
// один отзыв на автора, получатель — вторая сторона.
func (s *ReviewService) Create(ctx context.Context, caller policy.Caller, in ReviewInput) (*models.Review, error) {
	if err := validation.Rating(in.Rating); err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка проекта")
	}
	if !policy.CanReview(caller, project) {
		return nil, apperror.ErrForbidden
	}
	if project.Status != models.ProjectStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeConflict, "отзыв можно оставить только по завершенному проекту")
	}

	exists, err := s.reviews.ExistsByReviewer(ctx, in.ProjectID, caller.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "проверка отзыва")
	}
	if exists {
		return nil, apperror.New(apperror.ErrCodeConflict, "отзыв по этому проекту уже оставлен")
	}

	review := &models.Review{
		ID:         uuid.New(),
		ProjectID:  in.ProjectID,
		ReviewerID: caller.ID,
		RevieweeID: policy.OtherParty(caller, project),
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "отзыв по этому проекту уже оставлен")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "создание отзыва")
	}
	return review, nil
}

// ListForUser возвращает отзывы, полученные пользователем.
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	reviews, err := s.reviews.ListByReviewee(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "список отзывов")
	}
	return reviews, nil
}
