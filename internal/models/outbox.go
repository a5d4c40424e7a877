package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Темы событий outbox. Диспетчер раскладывает их в уведомления и письма.
const (
	EventBidAccepted      = "bid.accepted"
	EventBidRejected      = "bid.rejected"
	EventProjectCreated   = "project.created"
	EventProjectStatus    = "project.status_changed"
	EventMilestoneStatus  = "milestone.status_changed"
	EventMessageSent      = "message.sent"
	EventReviewSubmitted  = "review.submitted"
)

// OutboxEvent пишется в той же транзакции, что и изменение состояния,
// и доставляется диспетчером отдельно от неё.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Topic       string          `db:"topic" json:"topic"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// EventPayload — общий формат полезной нагрузки события.
type EventPayload struct {
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Email      string    `json:"email,omitempty"`
	EmailKind  string    `json:"email_kind,omitempty"`
	EntityID   uuid.UUID `json:"entity_id,omitempty"`
	EntityName string    `json:"entity_name,omitempty"`
}

func NewOutboxEvent(topic string, payload EventPayload) (OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		ID:        uuid.New(),
		Topic:     topic,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}
