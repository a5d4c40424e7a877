package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

// OutboxRepository хранит события, записанные в транзакциях рабочих процессов.
type OutboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// AppendEventTx добавляет событие внутри уже открытой транзакции.
func AppendEventTx(tx *sqlx.Tx, ev models.OutboxEvent) error {
	_, err := tx.Exec(`
		INSERT INTO outbox_events (id, topic, payload, created_at)
		VALUES ($1, $2, $3, $4)`,
		ev.ID, ev.Topic, ev.Payload, ev.CreatedAt)
	return err
}

// ListUnprocessed возвращает недоставленные события в порядке записи.
func (r *OutboxRepository) ListUnprocessed(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	events := []models.OutboxEvent{}
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1`, limit)
	return events, err
}

// MarkProcessed помечает событие доставленным. Одна попытка на событие.
func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE outbox_events SET processed_at = now() WHERE id = $1`, id)
	return err
}
