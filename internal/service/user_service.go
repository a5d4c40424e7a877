package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
	"github.com/ignatzorin/levkonnect-backend/internal/validation"
)

// UserService — личный кабинет: профиль пользователя и ролевые анкеты.
type UserService struct {
	users UserRepo
}

func NewUserService(users UserRepo) *UserService {
	return &UserService{users: users}
}

// Profile — пользователь вместе с анкетой его роли.
type Profile struct {
	User     *models.User            `json:"user"`
	Engineer *models.EngineerProfile `json:"engineer_profile,omitempty"`
	Client   *models.ClientProfile   `json:"client_profile,omitempty"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка пользователя")
	}

	p := &Profile{User: user}
	switch user.Role {
	case models.RoleEngineer:
		if ep, err := s.users.GetEngineerProfile(ctx, userID); err == nil {
			p.Engineer = ep
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка анкеты")
		}
	case models.RoleClient:
		if cp, err := s.users.GetClientProfile(ctx, userID); err == nil {
			p.Client = cp
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка анкеты")
		}
	}
	return p, nil
}

type UpdateProfileInput struct {
	Username    string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Engineer    *models.EngineerProfile
	Client      *models.ClientProfile
}

// UpdateProfile обновляет поля пользователя и анкету его роли.
// Анкета чужой роли игнорируется.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка пользователя")
	}

	if in.Username != "" {
		if err := validation.MaxLen("username", in.Username, 64); err != nil {
			return nil, err
		}
		user.Username = in.Username
	}
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PhoneNumber = in.PhoneNumber

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "имя пользователя занято")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "обновление профиля")
	}

	if user.Role == models.RoleEngineer && in.Engineer != nil {
		in.Engineer.UserID = userID
		if err := s.users.UpsertEngineerProfile(ctx, in.Engineer); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "обновление анкеты")
		}
	}
	if user.Role == models.RoleClient && in.Client != nil {
		in.Client.UserID = userID
		if err := s.users.UpsertClientProfile(ctx, in.Client); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "обновление анкеты")
		}
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword меняет пароль после проверки текущего.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if err := validation.Password(next); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "загрузка пользователя")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperror.New(apperror.ErrCodeUnauthorized, "текущий пароль неверен")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "хеширование пароля")
	}
	return s.users.UpdatePassword(ctx, userID, string(hash))
}
