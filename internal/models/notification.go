package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification — уведомление пользователя в ленте и по ws.
type Notification struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Типы обращений через контактную форму.
const (
	ContactTypeGeneral  = "general"
	ContactTypeClient   = "client"
	ContactTypeEngineer = "engineer"
	ContactTypePartner  = "partner"
)

var ValidContactTypes = map[string]bool{
	ContactTypeGeneral:  true,
	ContactTypeClient:   true,
	ContactTypeEngineer: true,
	ContactTypePartner:  true,
}

// ContactMessage — обращение через публичную контактную форму.
type ContactMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	UserType  string    `db:"user_type" json:"user_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
