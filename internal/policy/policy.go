package policy

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

// Caller — субъект проверки доступа, извлекается из JWT в middleware.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// CanManageJob — редактировать и удалять работу может владелец или админ.
func CanManageJob(c Caller, job *models.Job) bool {
	return c.IsAdmin() || job.ClientID == c.ID
}

// CanAcceptBid — принять ставку может только владелец работы.
func CanAcceptBid(c Caller, job *models.Job) bool {
	return job.ClientID == c.ID
}

// CanViewProject — проект видят его стороны и админ.
func CanViewProject(c Caller, p *models.Project) bool {
	return c.IsAdmin() || p.ClientID == c.ID || p.EngineerID == c.ID
}

// CanMessageProject — писать в проекте могут только его стороны.
func CanMessageProject(c Caller, p *models.Project) bool {
	return p.ClientID == c.ID || p.EngineerID == c.ID
}

// CanTransitionProject — статус проекта меняет заказчик или админ.
func CanTransitionProject(c Caller, p *models.Project) bool {
	return c.IsAdmin() || p.ClientID == c.ID
}

// CanManageMilestones — создавать этапы может заказчик проекта или админ.
func CanManageMilestones(c Caller, p *models.Project) bool {
	return c.IsAdmin() || p.ClientID == c.ID
}

// CanActOnMilestone решает, кто может перевести этап в целевой статус:
// инженер начинает и сдает работу, заказчик или админ принимает решение.
func CanActOnMilestone(c Caller, p *models.Project, target models.MilestoneStatus) bool {
	switch target {
	case models.MilestoneStatusInProgress, models.MilestoneStatusSubmitted:
		return p.EngineerID == c.ID
	case models.MilestoneStatusApproved, models.MilestoneStatusRejected:
		return c.IsAdmin() || p.ClientID == c.ID
	default:
		return false
	}
}

// CanReview — отзыв оставляют стороны проекта, админ не участвует.
func CanReview(c Caller, p *models.Project) bool {
	return p.ClientID == c.ID || p.EngineerID == c.ID
}

// OtherParty возвращает вторую сторону проекта относительно вызывающего.
func OtherParty(c Caller, p *models.Project) uuid.UUID {
	if p.ClientID == c.ID {
		return p.EngineerID
	}
	return p.ClientID
}
