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

// ProjectRepository отвечает за проекты, этапы, выплаты и сообщения.
type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p, `SELECT * FROM projects WHERE id = $1`, id)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &p, nil
}

// ListForUser возвращает проекты, где пользователь выступает любой из сторон.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects, `
		SELECT * FROM projects
		WHERE client_id = $1 OR engineer_id = $1
		ORDER BY created_at DESC`, userID)
	return projects, err
}

// ListAll — административная выдача всех проектов.
func (r *ProjectRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.db.SelectContext(ctx, &projects, `
		SELECT * FROM projects ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return projects, err
}

// GetDetails собирает проект со всеми вложенными сущностями.
func (r *ProjectRepository) GetDetails(ctx context.Context, id uuid.UUID) (*models.ProjectDetails, error) {
	project, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &models.ProjectDetails{
		Project:    *project,
		Milestones: []models.Milestone{},
		Messages:   []models.Message{},
		Payments:   []models.Payment{},
		Reviews:    []models.Review{},
	}

	if err := r.db.SelectContext(ctx, &details.Milestones, `
		SELECT * FROM milestones WHERE project_id = $1 ORDER BY created_at`, id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &details.Messages, `
		SELECT * FROM messages WHERE project_id = $1 ORDER BY created_at`, id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &details.Payments, `
		SELECT * FROM payments WHERE project_id = $1 ORDER BY paid_at`, id); err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &details.Reviews, `
		SELECT * FROM reviews WHERE project_id = $1 ORDER BY created_at`, id); err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateStatus переводит проект в новый статус. Завершение и отмена
// каскадно меняют статус связанной работы в той же транзакции.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, next models.ProjectStatus, engineerEmail string) (*models.Project, error) {
	var project models.Project

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.Get(&project, `SELECT * FROM projects WHERE id = $1 FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrProjectNotFound
			}
			return err
		}
		if !project.Status.CanTransitionTo(next) {
			return apperror.New(apperror.ErrCodeConflict,
				fmt.Sprintf("переход %s → %s недопустим", project.Status, next))
		}

		now := time.Now().UTC()
		var startedAt *time.Time
		if next == models.ProjectStatusInProgress && project.StartedAt == nil {
			startedAt = &now
		} else {
			startedAt = project.StartedAt
		}

		if _, err := tx.Exec(`
			UPDATE projects SET status = $2, started_at = $3, updated_at = now() WHERE id = $1`,
			id, next, startedAt); err != nil {
			return err
		}
		project.Status = next
		project.StartedAt = startedAt

		if next == models.ProjectStatusCompleted || next == models.ProjectStatusCancelled {
			jobStatus := models.JobStatusCompleted
			if next == models.ProjectStatusCancelled {
				jobStatus = models.JobStatusCancelled
			}
			if _, err := tx.Exec(`
				UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`,
				project.JobID, jobStatus); err != nil {
				return err
			}

			title := "Проект завершен"
			message := fmt.Sprintf("Проект «%s» отмечен завершенным", project.Title)
			if next == models.ProjectStatusCancelled {
				title = "Проект отменен"
				message = fmt.Sprintf("Проект «%s» отменен", project.Title)
			}
			ev, err := models.NewOutboxEvent(models.EventProjectStatus, models.EventPayload{
				UserID:     project.EngineerID,
				Title:      title,
				Message:    message,
				Email:      engineerEmail,
				EmailKind:  "project_" + string(next),
				EntityID:   project.ID,
				EntityName: project.Title,
			})
			if err != nil {
				return err
			}
			return AppendEventTx(tx, ev)
		}

		ev, err := models.NewOutboxEvent(models.EventProjectStatus, models.EventPayload{
			UserID:     project.EngineerID,
			Title:      "Статус проекта изменен",
			Message:    fmt.Sprintf("Проект «%s» переведен в статус %s", project.Title, next),
			EntityID:   project.ID,
			EntityName: project.Title,
		})
		if err != nil {
			return err
		}
		return AppendEventTx(tx, ev)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) CreateMilestone(ctx context.Context, m *models.Milestone) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO milestones (id, project_id, title, description, amount, due_date,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ProjectID, m.Title, m.Description, m.Amount, m.DueDate,
		m.Status, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *ProjectRepository) GetMilestoneByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	var m models.Milestone
	err := r.db.GetContext(ctx, &m, `SELECT * FROM milestones WHERE id = $1`, id)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &m, nil
}

// UpdateMilestoneStatus переводит этап в новый статус. Одобрение создает
// выплату в той же транзакции; уникальность milestone_id в payments
// исключает двойную выплату даже при гонке.
func (r *ProjectRepository) UpdateMilestoneStatus(ctx context.Context, projectID, milestoneID uuid.UUID, next models.MilestoneStatus, notifyUserID uuid.UUID, notifyEmail string) (*models.Milestone, error) {
	var milestone models.Milestone

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.Get(&milestone, `
			SELECT * FROM milestones WHERE id = $1 AND project_id = $2 FOR UPDATE`,
			milestoneID, projectID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrMilestoneNotFound
			}
			return err
		}
		if !milestone.Status.CanTransitionTo(next) {
			return apperror.New(apperror.ErrCodeConflict,
				fmt.Sprintf("переход %s → %s недопустим", milestone.Status, next))
		}

		if _, err := tx.Exec(`
			UPDATE milestones SET status = $2, updated_at = now() WHERE id = $1`,
			milestoneID, next); err != nil {
			return err
		}
		milestone.Status = next

		if next == models.MilestoneStatusApproved {
			var project models.Project
			if err := tx.Get(&project, `SELECT * FROM projects WHERE id = $1`, projectID); err != nil {
				return common.MapGetErr(err)
			}
			if _, err := tx.Exec(`
				INSERT INTO payments (id, project_id, milestone_id, client_id, engineer_id,
					amount, method, status, paid_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				uuid.New(), projectID, milestoneID, project.ClientID, project.EngineerID,
				milestone.Amount, models.PaymentMethodSystem, models.PaymentStatusCompleted,
				time.Now().UTC()); err != nil {
				if common.IsUniqueViolation(err) {
					return apperror.New(apperror.ErrCodeConflict, "выплата по этапу уже проведена")
				}
				return err
			}
		}

		ev, err := models.NewOutboxEvent(models.EventMilestoneStatus, models.EventPayload{
			UserID:     notifyUserID,
			Title:      "Статус этапа изменен",
			Message:    fmt.Sprintf("Этап «%s» переведен в статус %s", milestone.Title, next),
			Email:      notifyEmail,
			EmailKind:  "milestone_" + string(next),
			EntityID:   milestone.ID,
			EntityName: milestone.Title,
		})
		if err != nil {
			return err
		}
		return AppendEventTx(tx, ev)
	})
	if err != nil {
		return nil, err
	}
	return &milestone, nil
}

func (r *ProjectRepository) CreateMessage(ctx context.Context, m *models.Message) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO messages (id, project_id, sender_id, receiver_id, content, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, m.ProjectID, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt); err != nil {
			return err
		}
		ev, err := models.NewOutboxEvent(models.EventMessageSent, models.EventPayload{
			UserID:   m.ReceiverID,
			Title:    "Новое сообщение",
			Message:  "В проекте появилось новое сообщение",
			EntityID: m.ProjectID,
		})
		if err != nil {
			return err
		}
		return AppendEventTx(tx, ev)
	})
}

func (r *ProjectRepository) ListPaymentsByEngineer(ctx context.Context, engineerID uuid.UUID) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments WHERE engineer_id = $1 ORDER BY paid_at DESC`, engineerID)
	return payments, err
}

// CountByStatus считает проекты стороны в заданном статусе.
func (r *ProjectRepository) CountByStatus(ctx context.Context, userID uuid.UUID, status models.ProjectStatus) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT count(*) FROM projects
		WHERE (client_id = $1 OR engineer_id = $1) AND status = $2`, userID, status)
	return n, err
}

// CountPendingBidsOnClientJobs — ставки в ожидании на работах заказчика.
func (r *ProjectRepository) CountPendingBidsOnClientJobs(ctx context.Context, clientID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT count(*) FROM bids b
		JOIN jobs j ON j.id = b.job_id
		WHERE j.client_id = $1 AND b.status = $2`, clientID, models.BidStatusPending)
	return n, err
}

// CountPendingBidsByEngineer — ставки инженера в ожидании.
func (r *ProjectRepository) CountPendingBidsByEngineer(ctx context.Context, engineerID uuid.UUID) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT count(*) FROM bids WHERE engineer_id = $1 AND status = $2`,
		engineerID, models.BidStatusPending)
	return n, err
}

// TotalEarnings — сумма выплат инженеру.
func (r *ProjectRepository) TotalEarnings(ctx context.Context, engineerID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(sum(amount), 0) FROM payments WHERE engineer_id = $1`, engineerID)
	return total, err
}
