package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// ReviewRepository хранит отзывы по завершенным проектам.
type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, project_id, reviewer_id, reviewee_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID, review.ProjectID, review.ReviewerID, review.RevieweeID,
		review.Rating, review.Comment, review.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ExistsByReviewer проверяет, оставлял ли автор отзыв по проекту.
func (r *ReviewRepository) ExistsByReviewer(ctx context.Context, projectID, reviewerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE project_id = $1 AND reviewer_id = $2)`,
		projectID, reviewerID)
	return exists, err
}

func (r *ReviewRepository) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewee_id = $1 ORDER BY created_at DESC`, revieweeID)
	return reviews, err
}
