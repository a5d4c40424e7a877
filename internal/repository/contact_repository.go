package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
)

// ContactRepository хранит обращения через контактную форму.
type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, user_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.UserType, m.CreatedAt)
	return err
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	messages := []models.ContactMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT * FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	return messages, err
}
