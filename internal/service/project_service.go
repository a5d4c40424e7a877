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

// ProjectRepo — контракт хранилища проектов, этапов и сообщений.
type ProjectRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Project, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*models.ProjectDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.ProjectStatus, engineerEmail string) (*models.Project, error)
	CreateMilestone(ctx context.Context, m *models.Milestone) error
	GetMilestoneByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error)
	UpdateMilestoneStatus(ctx context.Context, projectID, milestoneID uuid.UUID, next models.MilestoneStatus, notifyUserID uuid.UUID, notifyEmail string) (*models.Milestone, error)
	CreateMessage(ctx context.Context, m *models.Message) error
}

// ProjectService — проекты, этапы, сообщения.
type ProjectService struct {
	projects ProjectRepo
	users    UserRepo
}

func NewProjectService(projects ProjectRepo, users UserRepo) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// List возвращает проекты вызывающего; админ видит все.
func (s *ProjectService) List(ctx context.Context, caller policy.Caller, limit, offset int) ([]models.Project, error) {
	var (
		projects []models.Project
		err      error
	)
	if caller.IsAdmin() {
		projects, err = s.projects.ListAll(ctx, limit, offset)
	} else {
		projects, err = s.projects.ListForUser(ctx, caller.ID)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "список проектов")
	}
	return projects, nil
}

func (s *ProjectService) getAuthorized(ctx context.Context, caller policy.Caller, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка проекта")
	}
	if !policy.CanViewProject(caller, project) {
		return nil, apperror.ErrForbidden
	}
	return project, nil
}

// GetDetails возвращает проект со всеми вложенными сущностями.
func (s *ProjectService) GetDetails(ctx context.Context, caller policy.Caller, id uuid.UUID) (*models.ProjectDetails, error) {
	if _, err := s.getAuthorized(ctx, caller, id); err != nil {
		return nil, err
	}
	details, err := s.projects.GetDetails(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "детали проекта")
	}
	return details, nil
}

// UpdateStatus переводит проект в новый статус. Доступно заказчику и админу.
func (s *ProjectService) UpdateStatus(ctx context.Context, caller policy.Caller, id uuid.UUID, rawStatus string) (*models.Project, error) {
	next, err := models.NewProjectStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	project, err := s.getAuthorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanTransitionProject(caller, project) {
		return nil, apperror.ErrForbidden
	}

	var engineerEmail string
	if engineer, err := s.users.GetByID(ctx, project.EngineerID); err == nil {
		engineerEmail = engineer.Email
	}

	return s.projects.UpdateStatus(ctx, id, next, engineerEmail)
}

type MilestoneInput struct {
	Title       string
	Description *string
	Amount      float64
	DueDate     *time.Time
}

// CreateMilestone добавляет этап. Доступно заказчику проекта и админу,
// только пока проект не в терминальном статусе.
func (s *ProjectService) CreateMilestone(ctx context.Context, caller policy.Caller, projectID uuid.UUID, in MilestoneInput) (*models.Milestone, error) {
	if err := validation.Required("title", in.Title); err != nil {
		return nil, err
	}
	if err := validation.Positive("amount", in.Amount); err != nil {
		return nil, err
	}

	project, err := s.getAuthorized(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageMilestones(caller, project) {
		return nil, apperror.ErrForbidden
	}
	if project.Status.IsTerminal() {
		return nil, apperror.New(apperror.ErrCodeConflict, "проект уже закрыт")
	}

	now := time.Now().UTC()
	m := &models.Milestone{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      models.MilestoneStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.CreateMilestone(ctx, m); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "создание этапа")
	}
	return m, nil
}

// UpdateMilestoneStatus переводит этап в новый статус с проверкой,
// кому из сторон доступен целевой статус. Уведомляется вторая сторона.
func (s *ProjectService) UpdateMilestoneStatus(ctx context.Context, caller policy.Caller, projectID, milestoneID uuid.UUID, rawStatus string) (*models.Milestone, error) {
	next, err := models.NewMilestoneStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	project, err := s.getAuthorized(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanActOnMilestone(caller, project, next) {
		return nil, apperror.ErrForbidden
	}

	notifyUserID := policy.OtherParty(caller, project)
	var notifyEmail string
	if u, err := s.users.GetByID(ctx, notifyUserID); err == nil {
		notifyEmail = u.Email
	}

	return s.projects.UpdateMilestoneStatus(ctx, projectID, milestoneID, next, notifyUserID, notifyEmail)
}

// SendMessage отправляет сообщение в проекте. Получатель — вторая сторона.
func (s *ProjectService) SendMessage(ctx context.Context, caller policy.Caller, projectID uuid.UUID, content string) (*models.Message, error) {
	if err := validation.Required("content", content); err != nil {
		return nil, err
	}
	if err := validation.MaxLen("content", content, 5000); err != nil {
		return nil, err
	}

	project, err := s.getAuthorized(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMessageProject(caller, project) {
		return nil, apperror.ErrForbidden
	}

	m := &models.Message{
		ID:         uuid.New(),
		ProjectID:  projectID,
		SenderID:   caller.ID,
		ReceiverID: policy.OtherParty(caller, project),
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.projects.CreateMessage(ctx, m); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "отправка сообщения")
	}
	return m, nil
}
