package models

import (
	"time"

	"github.com/google/uuid"
)

// Project — рабочая площадка, создаваемая при принятии ставки.
// Привязки job_id и bid_id уникальны: одна работа порождает один проект.
type Project struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	JobID       uuid.UUID     `db:"job_id" json:"job_id"`
	BidID       uuid.UUID     `db:"bid_id" json:"bid_id"`
	ClientID    uuid.UUID     `db:"client_id" json:"client_id"`
	EngineerID  uuid.UUID     `db:"engineer_id" json:"engineer_id"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	Status      ProjectStatus `db:"status" json:"status"`
	StartedAt   *time.Time    `db:"started_at" json:"started_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Milestone — этап проекта с собственной суммой и сроком.
type Milestone struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ProjectID   uuid.UUID       `db:"project_id" json:"project_id"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description,omitempty"`
	Amount      float64         `db:"amount" json:"amount"`
	DueDate     *time.Time      `db:"due_date" json:"due_date,omitempty"`
	Status      MilestoneStatus `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

const (
	PaymentMethodSystem    = "system"
	PaymentStatusCompleted = "completed"
)

// Payment — выплата по одобренному этапу. milestone_id уникален,
// двойная выплата по одному этапу невозможна на уровне схемы.
type Payment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ProjectID   uuid.UUID `db:"project_id" json:"project_id"`
	MilestoneID uuid.UUID `db:"milestone_id" json:"milestone_id"`
	ClientID    uuid.UUID `db:"client_id" json:"client_id"`
	EngineerID  uuid.UUID `db:"engineer_id" json:"engineer_id"`
	Amount      float64   `db:"amount" json:"amount"`
	Method      string    `db:"method" json:"method"`
	Status      string    `db:"status" json:"status"`
	PaidAt      time.Time `db:"paid_at" json:"paid_at"`
}

// Message — сообщение внутри проекта между заказчиком и инженером.
type Message struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProjectID  uuid.UUID `db:"project_id" json:"project_id"`
	SenderID   uuid.UUID `db:"sender_id" json:"sender_id"`
	ReceiverID uuid.UUID `db:"receiver_id" json:"receiver_id"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Review — отзыв по завершенному проекту, один на автора в рамках проекта.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ProjectID  uuid.UUID `db:"project_id" json:"project_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	RevieweeID uuid.UUID `db:"reviewee_id" json:"reviewee_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ProjectDetails — проект со всеми вложенными сущностями для страницы проекта.
type ProjectDetails struct {
	Project    Project     `json:"project"`
	Milestones []Milestone `json:"milestones"`
	Messages   []Message   `json:"messages"`
	Payments   []Payment   `json:"payments"`
	Reviews    []Review    `json:"reviews"`
}
