package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/levkonnect-backend/internal/goroutine"
	"github.com/ignatzorin/levkonnect-backend/internal/logger"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
	"github.com/ignatzorin/levkonnect-backend/internal/validation"
)

// UserRepo — контракт хранилища пользователей для сервиса авторизации.
type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkVerified(ctx context.Context, token string) (*models.User, error)
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	GetEngineerProfile(ctx context.Context, userID uuid.UUID) (*models.EngineerProfile, error)
	UpsertEngineerProfile(ctx context.Context, p *models.EngineerProfile) error
	GetClientProfile(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error)
	UpsertClientProfile(ctx context.Context, p *models.ClientProfile) error
}

// VerificationMailer — часть почтовика, нужная авторизации.
type VerificationMailer interface {
	SendVerification(to, token string) error
	SendPasswordReset(to, token string) error
}

// AuthService — регистрация, вход, подтверждение почты, сброс пароля
// и административное управление пользователями.
type AuthService struct {
	users  UserRepo
	tokens *TokenManager
	mail   VerificationMailer
}

func NewAuthService(users UserRepo, tokens *TokenManager, mail VerificationMailer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mail: mail}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Signup создает неподтвержденного пользователя и шлет письмо со ссылкой.
// Роль admin через регистрацию недоступна.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.Required("username", in.Username); err != nil {
		return nil, err
	}
	if err := validation.Email(in.Email); err != nil {
		return nil, err
	}
	if err := validation.Password(in.Password); err != nil {
		return nil, err
	}
	if in.Role != models.RoleClient && in.Role != models.RoleEngineer {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть client или engineer")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "хеширование пароля")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	token, err := s.tokens.NewVerificationToken(user.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "выпуск токена подтверждения")
	}
	user.VerificationToken = &token

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "пользователь с таким email или именем уже существует")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "создание пользователя")
	}

	goroutine.SafeGo("auth.verification_email", func() {
		if err := s.mail.SendVerification(user.Email, token); err != nil {
			logger.Log.WithError(err).Warn("письмо подтверждения не отправлено")
		}
	})

	return user, nil
}

// Login проверяет учетные данные. Неизвестный email и неверный пароль
// неразличимы для клиента; неподтвержденная почта — отдельная ошибка 403.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, apperror.ErrInvalidCredentials
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "поиск пользователя")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "учетная запись заблокирована")
	}
	if !user.IsVerified {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "подтвердите email перед входом")
	}

	pair, err := s.tokens.NewPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "выпуск токенов")
	}
	return user, pair, nil
}

// Refresh обменивает refresh-токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, _, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "учетная запись заблокирована")
	}
	return s.tokens.NewPair(user.ID, user.Role)
}

// VerifyEmail подтверждает адрес по токену из письма.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if _, err := s.tokens.ParseVerificationToken(token); err != nil {
		return apperror.New(apperror.ErrCodeBadRequest, "ссылка подтверждения недействительна или устарела")
	}
	if _, err := s.users.MarkVerified(ctx, token); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.New(apperror.ErrCodeBadRequest, "ссылка подтверждения недействительна или устарела")
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "подтверждение email")
	}
	return nil
}

// ResendVerification повторно шлет письмо подтверждения.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, существует ли адрес.
		return nil
	}
	if user.IsVerified {
		return apperror.New(apperror.ErrCodeConflict, "email уже подтвержден")
	}

	token, err := s.tokens.NewVerificationToken(user.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "выпуск токена подтверждения")
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, token); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "сохранение токена")
	}

	goroutine.SafeGo("auth.resend_verification", func() {
		if err := s.mail.SendVerification(user.Email, token); err != nil {
			logger.Log.WithError(err).Warn("письмо подтверждения не отправлено")
		}
	})
	return nil
}

// RequestPasswordReset выпускает токен сброса и шлет письмо.
// Для неизвестного адреса отвечаем так же, как для известного.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}

	token, err := s.tokens.NewResetToken(user.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "выпуск токена сброса")
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, time.Now().UTC().Add(time.Hour)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "сохранение токена сброса")
	}

	goroutine.SafeGo("auth.password_reset_email", func() {
		if err := s.mail.SendPasswordReset(user.Email, token); err != nil {
			logger.Log.WithError(err).Warn("письмо сброса пароля не отправлено")
		}
	})
	return nil
}

// VerifyResetToken проверяет, действует ли токен сброса.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) error {
	if _, err := s.tokens.ParseResetToken(token); err != nil {
		return apperror.New(apperror.ErrCodeBadRequest, "ссылка сброса недействительна или устарела")
	}
	if _, err := s.users.GetByResetToken(ctx, token); err != nil {
		return apperror.New(apperror.ErrCodeBadRequest, "ссылка сброса недействительна или устарела")
	}
	return nil
}

// ResetPassword меняет пароль по действующему токену сброса.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}
	if _, err := s.tokens.ParseResetToken(token); err != nil {
		return apperror.New(apperror.ErrCodeBadRequest, "ссылка сброса недействительна или устарела")
	}
	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		return apperror.New(apperror.ErrCodeBadRequest, "ссылка сброса недействительна или устарела")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "хеширование пароля")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "смена пароля")
	}
	return nil
}

// ListUsers — административный список пользователей.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "список пользователей")
	}
	return users, nil
}

// SetUserActive блокирует или разблокирует учетную запись.
func (s *AuthService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "смена статуса пользователя")
	}
	return nil
}
