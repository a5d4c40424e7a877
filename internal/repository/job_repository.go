package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// JobRepository отвечает за работы и ставки, включая транзакцию принятия ставки.
type JobRepository struct {
	db *sqlx.DB
}

func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, client_id, title, category, description, budget, location,
			duration_days, required_skills, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		job.ID, job.ClientID, job.Title, job.Category, job.Description, job.Budget,
		job.Location, job.DurationDays, job.RequiredSkills, job.Deadline, job.Status,
		job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := r.db.GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = $1`, id)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &job, nil
}

// List возвращает работы с фильтром по статусу и счетчиком ставок.
func (r *JobRepository) List(ctx context.Context, status *models.JobStatus, limit, offset int) ([]models.JobWithClient, error) {
	query := `
		SELECT j.*, u.username AS client_username,
			(SELECT count(*) FROM bids b WHERE b.job_id = j.id) AS bid_count
		FROM jobs j
		JOIN users u ON u.id = j.client_id`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE j.status = $1`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	jobs := []models.JobWithClient{}
	err := r.db.SelectContext(ctx, &jobs, query, args...)
	return jobs, err
}

func (r *JobRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.JobWithClient, error) {
	jobs := []models.JobWithClient{}
	err := r.db.SelectContext(ctx, &jobs, `
		SELECT j.*, u.username AS client_username,
			(SELECT count(*) FROM bids b WHERE b.job_id = j.id) AS bid_count
		FROM jobs j
		JOIN users u ON u.id = j.client_id
		WHERE j.client_id = $1
		ORDER BY j.created_at DESC`, clientID)
	return jobs, err
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE jobs
		SET title = $2, category = $3, description = $4, budget = $5, location = $6,
			duration_days = $7, required_skills = $8, deadline = $9, updated_at = now()
		WHERE id = $1`,
		job.ID, job.Title, job.Category, job.Description, job.Budget, job.Location,
		job.DurationDays, job.RequiredSkills, job.Deadline)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// Delete удаляет работу только пока она открыта и без ставок.
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var job models.Job
		if err := tx.Get(&job, `SELECT * FROM jobs WHERE id = $1 FOR UPDATE`, id); err != nil {
			return common.MapGetErr(err)
		}
		if job.Status != models.JobStatusOpen {
			return apperror.New(apperror.ErrCodeConflict, "удалить можно только открытую работу")
		}
		var bids int
		if err := tx.Get(&bids, `SELECT count(*) FROM bids WHERE job_id = $1`, id); err != nil {
			return err
		}
		if bids > 0 {
			return apperror.New(apperror.ErrCodeConflict, "нельзя удалить работу с поданными ставками")
		}
		_, err := tx.Exec(`DELETE FROM jobs WHERE id = $1`, id)
		return err
	})
}

func (r *JobRepository) CreateBid(ctx context.Context, bid *models.Bid) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bids (id, job_id, engineer_id, amount, delivery_days, cover_letter,
			status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		bid.ID, bid.JobID, bid.EngineerID, bid.Amount, bid.DeliveryDays, bid.CoverLetter,
		bid.Status, bid.SubmittedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *JobRepository) GetBidByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.GetContext(ctx, &bid, `SELECT * FROM bids WHERE id = $1`, id)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &bid, nil
}

func (r *JobRepository) ListBidsByJob(ctx context.Context, jobID uuid.UUID) ([]models.BidWithEngineer, error) {
	bids := []models.BidWithEngineer{}
	err := r.db.SelectContext(ctx, &bids, `
		SELECT b.*, u.username AS engineer_username, u.email AS engineer_email
		FROM bids b
		JOIN users u ON u.id = b.engineer_id
		WHERE b.job_id = $1
		ORDER BY b.submitted_at`, jobID)
	return bids, err
}

func (r *JobRepository) ListBidsByEngineer(ctx context.Context, engineerID uuid.UUID) ([]models.Bid, error) {
	bids := []models.Bid{}
	err := r.db.SelectContext(ctx, &bids, `
		SELECT * FROM bids WHERE engineer_id = $1 ORDER BY submitted_at DESC`, engineerID)
	return bids, err
}

func (r *JobRepository) CountBids(ctx context.Context, jobID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM bids WHERE job_id = $1`, jobID)
	return n, err
}

// AcceptBid выполняет принятие ставки одной транзакцией: ставка становится
// accepted, работа уходит в in_progress, остальные pending-ставки отклоняются,
// создается проект. Частичное применение снаружи не наблюдаемо.
func (r *JobRepository) AcceptBid(ctx context.Context, jobID, bidID, clientID uuid.UUID, engineer *models.UserSummary) (*models.Bid, *models.Project, error) {
	var (
		bid     models.Bid
		project models.Project
	)

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var job models.Job
		if err := tx.Get(&job, `SELECT * FROM jobs WHERE id = $1 FOR UPDATE`, jobID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrJobNotFound
			}
			return err
		}
		if job.ClientID != clientID {
			return apperror.ErrForbidden
		}
		if job.Status != models.JobStatusOpen {
			return apperror.New(apperror.ErrCodeConflict, "ставку можно принять только на открытой работе")
		}

		if err := tx.Get(&bid, `SELECT * FROM bids WHERE id = $1 FOR UPDATE`, bidID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrBidNotFound
			}
			return err
		}
		if bid.JobID != jobID {
			return apperror.New(apperror.ErrCodeConflict, "ставка не относится к этой работе")
		}
		if !bid.Status.CanTransitionTo(models.BidStatusAccepted) {
			return apperror.New(apperror.ErrCodeConflict, "ставка уже рассмотрена")
		}

		if _, err := tx.Exec(`UPDATE bids SET status = $2 WHERE id = $1`,
			bid.ID, models.BidStatusAccepted); err != nil {
			return err
		}
		bid.Status = models.BidStatusAccepted

		if _, err := tx.Exec(`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`,
			job.ID, models.JobStatusInProgress); err != nil {
			return err
		}

		if _, err := tx.Exec(`
			UPDATE bids SET status = $3
			WHERE job_id = $1 AND id <> $2 AND status = $4`,
			jobID, bidID, models.BidStatusRejected, models.BidStatusPending); err != nil {
			return err
		}

		now := time.Now().UTC()
		project = models.Project{
			ID:          uuid.New(),
			JobID:       job.ID,
			BidID:       bid.ID,
			ClientID:    job.ClientID,
			EngineerID:  bid.EngineerID,
			Title:       job.Title,
			Description: job.Description,
			Status:      models.ProjectStatusNotStarted,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := tx.Exec(`
			INSERT INTO projects (id, job_id, bid_id, client_id, engineer_id, title,
				description, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			project.ID, project.JobID, project.BidID, project.ClientID, project.EngineerID,
			project.Title, project.Description, project.Status, project.CreatedAt, project.UpdatedAt); err != nil {
			if common.IsUniqueViolation(err) {
				return apperror.New(apperror.ErrCodeConflict, "по этой работе уже создан проект")
			}
			return err
		}

		accepted, err := models.NewOutboxEvent(models.EventBidAccepted, models.EventPayload{
			UserID:     bid.EngineerID,
			Title:      "Ставка принята",
			Message:    fmt.Sprintf("Ваша ставка по работе «%s» принята", job.Title),
			Email:      engineer.Email,
			EmailKind:  "bid_accepted",
			EntityID:   project.ID,
			EntityName: job.Title,
		})
		if err != nil {
			return err
		}
		if err := AppendEventTx(tx, accepted); err != nil {
			return err
		}

		created, err := models.NewOutboxEvent(models.EventProjectCreated, models.EventPayload{
			UserID:     job.ClientID,
			Title:      "Проект создан",
			Message:    fmt.Sprintf("По работе «%s» создан проект", job.Title),
			EntityID:   project.ID,
			EntityName: job.Title,
		})
		if err != nil {
			return err
		}
		return AppendEventTx(tx, created)
	})
	if err != nil {
		return nil, nil, err
	}
	return &bid, &project, nil
}
