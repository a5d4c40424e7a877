package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepo) ExistsByReviewer(ctx context.Context, projectID, reviewerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, reviewerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReviewRepo) ListByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, revieweeID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func reviewFixture(status models.ProjectStatus) (*fakeProjectRepo, *models.Project, policy.Caller, policy.Caller) {
	repo := newFakeProjectRepo()
	project, client, engineer := seedProject(repo, status)
	return repo, project, client, engineer
}

func TestCreateReview(t *testing.T) {
	projects, project, client, engineer := reviewFixture(models.ProjectStatusCompleted)
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, projects)

	reviews.On("ExistsByReviewer", mock.Anything, project.ID, client.ID).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.ProjectID == project.ID &&
			r.ReviewerID == client.ID &&
			r.RevieweeID == engineer.ID &&
			r.Rating == 5
	})).Return(nil)

	review, err := svc.Create(context.Background(), client, ReviewInput{
		ProjectID: project.ID,
		Rating:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, engineer.ID, review.RevieweeID)
	reviews.AssertExpectations(t)
}

func TestCreateReviewOnUnfinishedProject(t *testing.T) {
	projects, project, client, _ := reviewFixture(models.ProjectStatusInProgress)
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, projects)

	_, err := svc.Create(context.Background(), client, ReviewInput{
		ProjectID: project.ID,
		Rating:    4,
	})
	assert.True(t, apperror.IsConflict(err))
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewTwice(t *testing.T) {
	projects, project, client, _ := reviewFixture(models.ProjectStatusCompleted)
	reviews := new(mockReviewRepo)
	svc := NewReviewService(reviews, projects)

	reviews.On("ExistsByReviewer", mock.Anything, project.ID, client.ID).Return(true, nil)

	_, err := svc.Create(context.Background(), client, ReviewInput{
		ProjectID: project.ID,
		Rating:    4,
	})
	assert.True(t, apperror.IsConflict(err))
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	projects, project, client, _ := reviewFixture(models.ProjectStatusCompleted)
	svc := NewReviewService(new(mockReviewRepo), projects)

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(context.Background(), client, ReviewInput{
			ProjectID: project.ID,
			Rating:    rating,
		})
		assert.True(t, apperror.IsValidation(err), "rating %d", rating)
	}
}

func TestCreateReviewByOutsider(t *testing.T) {
	projects, project, _, _ := reviewFixture(models.ProjectStatusCompleted)
	svc := NewReviewService(new(mockReviewRepo), projects)

	stranger := policy.Caller{ID: uuid.New(), Role: models.RoleClient}
	_, err := svc.Create(context.Background(), stranger, ReviewInput{
		ProjectID: project.ID,
		Rating:    3,
	})
	assert.True(t, apperror.IsForbidden(err))

	// Админ не сторона проекта, отзыв ему недоступен.
	admin := policy.Caller{ID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.Create(context.Background(), admin, ReviewInput{
		ProjectID: project.ID,
		Rating:    3,
	})
	assert.True(t, apperror.IsForbidden(err))
}
