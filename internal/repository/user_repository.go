package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// UserRepository хранит пользователей и их ролевые анкеты.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, is_verified, is_active,
			verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.IsVerified, u.IsActive,
		u.VerificationToken, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE lower(email) = lower($1)`, email)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2, first_name = $3, last_name = $4, phone_number = $5, updated_at = now()
		WHERE id = $1`,
		u.ID, u.Username, u.FirstName, u.LastName, u.PhoneNumber)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return err
	}
	return checkAffected(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, reset_password_token = NULL, reset_password_expires = NULL,
			updated_at = now()
		WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// MarkVerified подтверждает адрес по токену из письма.
func (r *UserRepository) MarkVerified(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, updated_at = now()
		WHERE verification_token = $1
		RETURNING *`, token)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &u, nil
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET verification_token = $2, updated_at = now() WHERE id = $1`, id, token)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_password_token = $2, reset_password_expires = $3, updated_at = now()
		WHERE id = $1`, id, token, expires)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// GetByResetToken возвращает пользователя по действующему токену сброса.
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `
		SELECT * FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > now()`, token)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	return users, err
}

func (r *UserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *UserRepository) GetEngineerProfile(ctx context.Context, userID uuid.UUID) (*models.EngineerProfile, error) {
	var p models.EngineerProfile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM engineer_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &p, nil
}

func (r *UserRepository) UpsertEngineerProfile(ctx context.Context, p *models.EngineerProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO engineer_profiles (user_id, title, bio, skills, experience_years,
			hourly_rate, availability, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (user_id) DO UPDATE SET
			title = EXCLUDED.title, bio = EXCLUDED.bio, skills = EXCLUDED.skills,
			experience_years = EXCLUDED.experience_years, hourly_rate = EXCLUDED.hourly_rate,
			availability = EXCLUDED.availability, location = EXCLUDED.location,
			updated_at = now()`,
		p.UserID, p.Title, p.Bio, p.Skills, p.ExperienceYears,
		p.HourlyRate, p.Availability, p.Location)
	return err
}

func (r *UserRepository) GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	var p models.ClientProfile
	err := r.db.GetContext(ctx, &p, `SELECT * FROM client_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, common.MapGetErr(err)
	}
	return &p, nil
}

func (r *UserRepository) UpsertClientProfile(ctx context.Context, p *models.ClientProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_profiles (user_id, company_name, company_size, industry,
			description, website, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name, company_size = EXCLUDED.company_size,
			industry = EXCLUDED.industry, description = EXCLUDED.description,
			website = EXCLUDED.website, location = EXCLUDED.location, updated_at = now()`,
		p.UserID, p.CompanyName, p.CompanySize, p.Industry,
		p.Description, p.Website, p.Location)
	return err
}
