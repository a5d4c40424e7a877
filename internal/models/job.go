package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job — заказ, опубликованный заказчиком.
type Job struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	ClientID       uuid.UUID      `db:"client_id" json:"client_id"`
	Title          string         `db:"title" json:"title"`
	Category       string         `db:"category" json:"category"`
	Description    string         `db:"description" json:"description"`
	Budget         *float64       `db:"budget" json:"budget,omitempty"`
	Location       *string        `db:"location" json:"location,omitempty"`
	DurationDays   *int           `db:"duration_days" json:"duration_days,omitempty"`
	RequiredSkills pq.StringArray `db:"required_skills" json:"required_skills"`
	Deadline       *time.Time     `db:"deadline" json:"deadline,omitempty"`
	Status         JobStatus      `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Bid — ставка инженера на работу. На пару (работа, инженер) допускается
// не более одной ставки.
type Bid struct {
	ID           uuid.UUID `db:"id" json:"id"`
	JobID        uuid.UUID `db:"job_id" json:"job_id"`
	EngineerID   uuid.UUID `db:"engineer_id" json:"engineer_id"`
	Amount       float64   `db:"amount" json:"amount"`
	DeliveryDays int       `db:"delivery_days" json:"delivery_days"`
	CoverLetter  string    `db:"cover_letter" json:"cover_letter"`
	Status       BidStatus `db:"status" json:"status"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
}

// JobWithClient — работа вместе с карточкой заказчика для публичной выдачи.
type JobWithClient struct {
	Job
	ClientUsername string `db:"client_username" json:"client_username"`
	BidCount       int    `db:"bid_count" json:"bid_count"`
}

// BidWithEngineer — ставка с карточкой инженера для владельца работы.
type BidWithEngineer struct {
	Bid
	EngineerUsername string `db:"engineer_username" json:"engineer_username"`
	EngineerEmail    string `db:"engineer_email" json:"engineer_email"`
}
