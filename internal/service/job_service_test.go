package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// fakeJobRepo воспроизводит семантику JobRepository в памяти,
// включая атомарное принятие ставки.
type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*models.Job
	bids     map[uuid.UUID]*models.Bid
	projects []models.Project
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs: make(map[uuid.UUID]*models.Job),
		bids: make(map[uuid.UUID]*models.Bid),
	}
}

func (f *fakeJobRepo) Create(_ context.Context, job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (f *fakeJobRepo) List(_ context.Context, status *models.JobStatus, _, _ int) ([]models.JobWithClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.JobWithClient{}
	for _, job := range f.jobs {
		if status == nil || job.Status == *status {
			out = append(out, models.JobWithClient{Job: *job})
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]models.JobWithClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.JobWithClient{}
	for _, job := range f.jobs {
		if job.ClientID == clientID {
			out = append(out, models.JobWithClient{Job: *job})
		}
	}
	return out, nil
}

func (f *fakeJobRepo) Update(_ context.Context, job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return common.ErrNotFound
	}
	if job.Status != models.JobStatusOpen {
		return apperror.New(apperror.ErrCodeConflict, "удалить можно только открытую работу")
	}
	for _, b := range f.bids {
		if b.JobID == id {
			return apperror.New(apperror.ErrCodeConflict, "нельзя удалить работу с поданными ставками")
		}
	}
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) CreateBid(_ context.Context, bid *models.Bid) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bids {
		if b.JobID == bid.JobID && b.EngineerID == bid.EngineerID {
			return common.ErrAlreadyExists
		}
	}
	cp := *bid
	f.bids[bid.ID] = &cp
	return nil
}

func (f *fakeJobRepo) GetBidByID(_ context.Context, id uuid.UUID) (*models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bid, ok := f.bids[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *bid
	return &cp, nil
}

func (f *fakeJobRepo) ListBidsByJob(_ context.Context, jobID uuid.UUID) ([]models.BidWithEngineer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.BidWithEngineer{}
	for _, b := range f.bids {
		if b.JobID == jobID {
			out = append(out, models.BidWithEngineer{Bid: *b})
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListBidsByEngineer(_ context.Context, engineerID uuid.UUID) ([]models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Bid{}
	for _, b := range f.bids {
		if b.EngineerID == engineerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) CountBids(_ context.Context, jobID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.bids {
		if b.JobID == jobID {
			n++
		}
	}
	return n, nil
}

func (f *fakeJobRepo) AcceptBid(_ context.Context, jobID, bidID, clientID uuid.UUID, _ *models.UserSummary) (*models.Bid, *models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[jobID]
	if !ok {
		return nil, nil, apperror.ErrJobNotFound
	}
	if job.ClientID != clientID {
		return nil, nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		return nil, nil, apperror.New(apperror.ErrCodeConflict, "ставку можно принять только на открытой работе")
	}
	bid, ok := f.bids[bidID]
	if !ok {
		return nil, nil, apperror.ErrBidNotFound
	}
	if bid.JobID != jobID {
		return nil, nil, apperror.New(apperror.ErrCodeConflict, "ставка не относится к этой работе")
	}
	if !bid.Status.CanTransitionTo(models.BidStatusAccepted) {
		return nil, nil, apperror.New(apperror.ErrCodeConflict, "ставка уже рассмотрена")
	}

	bid.Status = models.BidStatusAccepted
	job.Status = models.JobStatusInProgress
	for _, other := range f.bids {
		if other.JobID == jobID && other.ID != bidID && other.Status == models.BidStatusPending {
			other.Status = models.BidStatusRejected
		}
	}

	project := models.Project{
		ID:          uuid.New(),
		JobID:       jobID,
		BidID:       bidID,
		ClientID:    job.ClientID,
		EngineerID:  bid.EngineerID,
		Title:       job.Title,
		Description: job.Description,
		Status:      models.ProjectStatusNotStarted,
	}
	f.projects = append(f.projects, project)

	bidCopy := *bid
	return &bidCopy, &project, nil
}

func seedJobWithBids(t *testing.T, users *fakeUserRepo, jobs *fakeJobRepo, bidCount int) (*models.Job, []uuid.UUID, policy.Caller) {
	t.Helper()
	clientID := uuid.New()
	job := &models.Job{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       "Электромонтаж",
		Category:    "electrical",
		Description: "Монтаж щита",
		Status:      models.JobStatusOpen,
	}
	require.NoError(t, jobs.Create(context.Background(), job))

	bidIDs := make([]uuid.UUID, 0, bidCount)
	for i := 0; i < bidCount; i++ {
		engineer := seedUser(t, users, uuid.NewString()+"@example.com", "password1", true)
		bid := &models.Bid{
			ID:           uuid.New(),
			JobID:        job.ID,
			EngineerID:   engineer.ID,
			Amount:       10000,
			DeliveryDays: 14,
			CoverLetter:  "Готов приступить",
			Status:       models.BidStatusPending,
			SubmittedAt:  time.Now(),
		}
		require.NoError(t, jobs.CreateBid(context.Background(), bid))
		bidIDs = append(bidIDs, bid.ID)
	}
	return job, bidIDs, policy.Caller{ID: clientID, Role: models.RoleClient}
}

func TestAcceptBid(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)
	job, bidIDs, client := seedJobWithBids(t, users, jobs, 3)

	bid, project, err := svc.AcceptBid(context.Background(), client, job.ID, bidIDs[0])
	require.NoError(t, err)

	// Принятая ставка, работа в in_progress, проект создан из полей работы.
	assert.Equal(t, models.BidStatusAccepted, bid.Status)
	storedJob, _ := jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusInProgress, storedJob.Status)
	assert.Equal(t, models.ProjectStatusNotStarted, project.Status)
	assert.Equal(t, job.Title, project.Title)
	assert.Equal(t, bid.EngineerID, project.EngineerID)

	// Остальные ставки отклонены.
	for _, id := range bidIDs[1:] {
		other, _ := jobs.GetBidByID(context.Background(), id)
		assert.Equal(t, models.BidStatusRejected, other.Status)
	}

	// Повторное принятие любой ставки невозможно.
	_, _, err = svc.AcceptBid(context.Background(), client, job.ID, bidIDs[1])
	assert.True(t, apperror.IsConflict(err))
}

func TestAcceptBidForbiddenForNonOwner(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)
	job, bidIDs, _ := seedJobWithBids(t, users, jobs, 1)

	stranger := policy.Caller{ID: uuid.New(), Role: models.RoleClient}
	_, _, err := svc.AcceptBid(context.Background(), stranger, job.ID, bidIDs[0])
	assert.True(t, apperror.IsForbidden(err))

	// Без побочных эффектов.
	storedJob, _ := jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusOpen, storedJob.Status)
	assert.Empty(t, jobs.projects)
}

func TestCreateBidRules(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)
	job, _, client := seedJobWithBids(t, users, jobs, 0)

	engineer := policy.Caller{ID: uuid.New(), Role: models.RoleEngineer}
	input := BidInput{JobID: job.ID, Amount: 5000, DeliveryDays: 7, CoverLetter: "Сделаю"}

	_, err := svc.CreateBid(context.Background(), engineer, input)
	require.NoError(t, err)

	t.Run("повторная ставка", func(t *testing.T) {
		_, err := svc.CreateBid(context.Background(), engineer, input)
		assert.True(t, apperror.IsConflict(err))
	})

	t.Run("ставка на собственную работу", func(t *testing.T) {
		_, err := svc.CreateBid(context.Background(), client, input)
		assert.True(t, apperror.IsConflict(err))
	})

	t.Run("несуществующая работа", func(t *testing.T) {
		bad := input
		bad.JobID = uuid.New()
		_, err := svc.CreateBid(context.Background(), engineer, bad)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("неположительная сумма", func(t *testing.T) {
		bad := input
		bad.Amount = 0
		_, err := svc.CreateBid(context.Background(), engineer, bad)
		assert.True(t, apperror.IsValidation(err))
	})
}

func TestCreateBidOnClosedJob(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)
	job, bidIDs, client := seedJobWithBids(t, users, jobs, 1)

	_, _, err := svc.AcceptBid(context.Background(), client, job.ID, bidIDs[0])
	require.NoError(t, err)

	engineer := policy.Caller{ID: uuid.New(), Role: models.RoleEngineer}
	_, err = svc.CreateBid(context.Background(), engineer, BidInput{
		JobID: job.ID, Amount: 5000, DeliveryDays: 7, CoverLetter: "Поздно",
	})
	assert.True(t, apperror.IsConflict(err))
}

func TestDeleteJobRules(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)

	t.Run("открытая работа без ставок удаляется", func(t *testing.T) {
		job, _, client := seedJobWithBids(t, users, jobs, 0)
		require.NoError(t, svc.DeleteJob(context.Background(), client, job.ID))
	})

	t.Run("работа со ставками не удаляется", func(t *testing.T) {
		job, _, client := seedJobWithBids(t, users, jobs, 1)
		err := svc.DeleteJob(context.Background(), client, job.ID)
		assert.True(t, apperror.IsConflict(err))
	})

	t.Run("чужая работа недоступна", func(t *testing.T) {
		job, _, _ := seedJobWithBids(t, users, jobs, 0)
		stranger := policy.Caller{ID: uuid.New(), Role: models.RoleClient}
		err := svc.DeleteJob(context.Background(), stranger, job.ID)
		assert.True(t, apperror.IsForbidden(err))
	})
}

func TestGetJobHidesBidsFromStrangers(t *testing.T) {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	svc := NewJobService(jobs, users)
	job, _, client := seedJobWithBids(t, users, jobs, 2)

	// Аноним видит работу без ставок.
	_, bids, err := svc.GetJob(context.Background(), nil, job.ID)
	require.NoError(t, err)
	assert.Empty(t, bids)

	// Владелец видит ставки.
	_, bids, err = svc.GetJob(context.Background(), &client, job.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 2)
}
