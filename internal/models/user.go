package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	RoleClient   = "client"
	RoleEngineer = "engineer"
	RoleAdmin    = "admin"
)

var ValidRoles = map[string]bool{
	RoleClient:   true,
	RoleEngineer: true,
	RoleAdmin:    true,
}

// User — учетная запись платформы.
type User struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	Username             string     `db:"username" json:"username"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	FirstName            *string    `db:"first_name" json:"first_name,omitempty"`
	LastName             *string    `db:"last_name" json:"last_name,omitempty"`
	PhoneNumber          *string    `db:"phone_number" json:"phone_number,omitempty"`
	Role                 string     `db:"role" json:"role"`
	IsVerified           bool       `db:"is_verified" json:"is_verified"`
	IsActive             bool       `db:"is_active" json:"is_active"`
	VerificationToken    *string    `db:"verification_token" json:"-"`
	ResetPasswordToken   *string    `db:"reset_password_token" json:"-"`
	ResetPasswordExpires *time.Time `db:"reset_password_expires" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// EngineerProfile — анкета инженера, заполняется после регистрации.
type EngineerProfile struct {
	UserID          uuid.UUID      `db:"user_id" json:"user_id"`
	Title           *string        `db:"title" json:"title,omitempty"`
	Bio             *string        `db:"bio" json:"bio,omitempty"`
	Skills          pq.StringArray `db:"skills" json:"skills"`
	ExperienceYears *int           `db:"experience_years" json:"experience_years,omitempty"`
	HourlyRate      *float64       `db:"hourly_rate" json:"hourly_rate,omitempty"`
	Availability    *string        `db:"availability" json:"availability,omitempty"`
	Location        *string        `db:"location" json:"location,omitempty"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ClientProfile — анкета заказчика (компания).
type ClientProfile struct {
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	CompanyName *string   `db:"company_name" json:"company_name,omitempty"`
	CompanySize *string   `db:"company_size" json:"company_size,omitempty"`
	Industry    *string   `db:"industry" json:"industry,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	Website     *string   `db:"website" json:"website,omitempty"`
	Location    *string   `db:"location" json:"location,omitempty"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary — краткая карточка пользователя для вложенных ответов.
type UserSummary struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Email    string    `db:"email" json:"email"`
}
