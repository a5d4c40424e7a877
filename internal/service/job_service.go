package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
	"github.com/ignatzorin/levkonnect-backend/internal/validation"
)

// JobRepo — контракт хранилища работ и ставок.
type JobRepo interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.JobWithClient, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.JobWithClient, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateBid(ctx context.Context, bid *models.Bid) error
	GetBidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error)
	ListBidsByJob(ctx context.Context, jobID uuid.UUID) ([]models.BidWithEngineer, error)
	ListBidsByEngineer(ctx context.Context, engineerID uuid.UUID) ([]models.Bid, error)
	CountBids(ctx context.Context, jobID uuid.UUID) (int, error)
	AcceptBid(ctx context.Context, jobID, bidID, clientID uuid.UUID, engineer *models.UserSummary) (*models.Bid, *models.Project, error)
}

// JobService — публикация работ, ставки инженеров и принятие ставки.
type JobService struct {
	jobs  JobRepo
	users UserRepo
}

func NewJobService(jobs JobRepo, users UserRepo) *JobService {
	return &JobService{jobs: jobs, users: users}
}

type JobInput struct {
	Title          string
	Category       string
	Description    string
	Budget         *float64
	Location       *string
	DurationDays   *int
	RequiredSkills []string
	Deadline       *time.Time
}

func (in JobInput) validate() error {
	if err := validation.Required("title", in.Title); err != nil {
		return err
	}
	if err := validation.Required("category", in.Category); err != nil {
		return err
	}
	if err := validation.Required("description", in.Description); err != nil {
		return err
	}
	if err := validation.MaxLen("title", in.Title, 200); err != nil {
		return err
	}
	if in.Budget != nil {
		if err := validation.Positive("budget", *in.Budget); err != nil {
			return err
		}
	}
	return nil
}

// CreateJob публикует новую работу от имени заказчика.
func (s *JobService) CreateJob(ctx context.Context, caller policy.Caller, in JobInput) (*models.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:             uuid.New(),
		ClientID:       caller.ID,
		Title:          in.Title,
		Category:       in.Category,
		Description:    in.Description,
		Budget:         in.Budget,
		Location:       in.Location,
		DurationDays:   in.DurationDays,
		RequiredSkills: pq.StringArray(in.RequiredSkills),
		Deadline:       in.Deadline,
		Status:         models.JobStatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if job.RequiredSkills == nil {
		job.RequiredSkills = pq.StringArray{}
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "создание работы")
	}
	return job, nil
}

// ListJobs — публичная выдача; по умолчанию только открытые работы.
func (s *JobService) ListJobs(ctx context.Context, rawStatus string, limit, offset int) ([]models.JobWithClient, error) {
	var status *models.JobStatus
	switch rawStatus {
	case "all":
	case "":
		open := models.JobStatusOpen
		status = &open
	default:
		parsed, err := models.NewJobStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	jobs, err := s.jobs.List(ctx, status, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "список работ")
	}
	return jobs, nil
}

// GetJob возвращает работу со ставками. Ставки видят владелец и админ.
func (s *JobService) GetJob(ctx context.Context, caller *policy.Caller, id uuid.UUID) (*models.Job, []models.BidWithEngineer, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, apperror.ErrJobNotFound
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка работы")
	}

	var bids []models.BidWithEngineer
	if caller != nil && policy.CanManageJob(*caller, job) {
		bids, err = s.jobs.ListBidsByJob(ctx, id)
		if err != nil {
			return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "ставки по работе")
		}
	}
	return job, bids, nil
}

func (s *JobService) ListClientJobs(ctx context.Context, clientID uuid.UUID) ([]models.JobWithClient, error) {
	jobs, err := s.jobs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "работы заказчика")
	}
	return jobs, nil
}

// ListRecommended — открытые работы для ленты инженера.
func (s *JobService) ListRecommended(ctx context.Context, limit, offset int) ([]models.JobWithClient, error) {
	open := models.JobStatusOpen
	jobs, err := s.jobs.List(ctx, &open, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "рекомендованные работы")
	}
	return jobs, nil
}

// UpdateJob меняет поля работы. Менять можно только открытую работу.
func (s *JobService) UpdateJob(ctx context.Context, caller policy.Caller, id uuid.UUID, in JobInput) (*models.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка работы")
	}
	if !policy.CanManageJob(caller, job) {
		return nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeConflict, "менять можно только открытую работу")
	}

	job.Title = in.Title
	job.Category = in.Category
	job.Description = in.Description
	job.Budget = in.Budget
	job.Location = in.Location
	job.DurationDays = in.DurationDays
	job.RequiredSkills = pq.StringArray(in.RequiredSkills)
	if job.RequiredSkills == nil {
		job.RequiredSkills = pq.StringArray{}
	}
	job.Deadline = in.Deadline

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "обновление работы")
	}
	return job, nil
}

// DeleteJob удаляет работу: только владелец, только открытую и без ставок.
func (s *JobService) DeleteJob(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.ErrJobNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка работы")
	}
	if !policy.CanManageJob(caller, job) {
		return apperror.ErrForbidden
	}
	return s.jobs.Delete(ctx, id)
}

type BidInput struct {
	JobID        uuid.UUID
	Amount       float64
	DeliveryDays int
	CoverLetter  string
}

// CreateBid подает ставку инженера. Работа должна быть открыта,
// повторная ставка на ту же работу недопустима.
func (s *JobService) CreateBid(ctx context.Context, caller policy.Caller, in BidInput) (*models.Bid, error) {
	if err := validation.Positive("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.DeliveryDays <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "срок выполнения должен быть положительным")
	}
	if err := validation.Required("cover_letter", in.CoverLetter); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrJobNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка работы")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeConflict, "ставки принимаются только на открытые работы")
	}
	if job.ClientID == caller.ID {
		return nil, apperror.New(apperror.ErrCodeConflict, "нельзя ставить на собственную работу")
	}

	bid := &models.Bid{
		ID:           uuid.New(),
		JobID:        in.JobID,
		EngineerID:   caller.ID,
		Amount:       in.Amount,
		DeliveryDays: in.DeliveryDays,
		CoverLetter:  in.CoverLetter,
		Status:       models.BidStatusPending,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.jobs.CreateBid(ctx, bid); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "ставка на эту работу уже подана")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "создание ставки")
	}
	return bid, nil
}

func (s *JobService) ListMyBids(ctx context.Context, engineerID uuid.UUID) ([]models.Bid, error) {
	bids, err := s.jobs.ListBidsByEngineer(ctx, engineerID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "ставки инженера")
	}
	return bids, nil
}

// AcceptBid принимает ставку. Вся работа проходит одной транзакцией
// в репозитории; сервис только готовит данные инженера для уведомления.
func (s *JobService) AcceptBid(ctx context.Context, caller policy.Caller, jobID, bidID uuid.UUID) (*models.Bid, *models.Project, error) {
	bid, err := s.jobs.GetBidByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, apperror.ErrBidNotFound
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка ставки")
	}

	engineerUser, err := s.users.GetByID(ctx, bid.EngineerID)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка инженера")
	}
	engineer := &models.UserSummary{
		ID:       engineerUser.ID,
		Username: engineerUser.Username,
		Email:    engineerUser.Email,
	}

	return s.jobs.AcceptBid(ctx, jobID, bidID, caller.ID, engineer)
}
