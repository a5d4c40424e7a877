package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
)

// Назначения одноразовых токенов, встраиваются в claim purpose.
const (
	PurposeAccess        = "access"
	PurposeRefresh       = "refresh"
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"
)

// TokenManager выпускает и проверяет JWT: пару access/refresh для сессий
// и одноразовые токены для подтверждения почты и сброса пароля.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func (m *TokenManager) issue(secret []byte, userID uuid.UUID, role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// NewPair выпускает access/refresh пару для сессии пользователя.
func (m *TokenManager) NewPair(userID uuid.UUID, role string) (*TokenPair, error) {
	access, err := m.issue(m.accessSecret, userID, role, PurposeAccess, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.issue(m.refreshSecret, userID, role, PurposeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// NewVerificationToken — токен подтверждения почты, живет сутки.
func (m *TokenManager) NewVerificationToken(userID uuid.UUID) (string, error) {
	return m.issue(m.accessSecret, userID, "", PurposeVerifyEmail, 24*time.Hour)
}

// NewResetToken — токен сброса пароля, живет час.
func (m *TokenManager) NewResetToken(userID uuid.UUID) (string, error) {
	return m.issue(m.accessSecret, userID, "", PurposeResetPassword, time.Hour)
}

func (m *TokenManager) parse(secret []byte, raw, purpose string) (uuid.UUID, string, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperror.ErrUnauthorized
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", apperror.New(apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Purpose != purpose {
		return uuid.Nil, "", apperror.New(apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", apperror.New(apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	return userID, claims.Role, nil
}

// ParseAccess возвращает (userID, role) из access-токена.
func (m *TokenManager) ParseAccess(raw string) (uuid.UUID, string, error) {
	return m.parse(m.accessSecret, raw, PurposeAccess)
}

// ParseRefresh возвращает (userID, role) из refresh-токена.
func (m *TokenManager) ParseRefresh(raw string) (uuid.UUID, string, error) {
	return m.parse(m.refreshSecret, raw, PurposeRefresh)
}

func (m *TokenManager) ParseVerificationToken(raw string) (uuid.UUID, error) {
	userID, _, err := m.parse(m.accessSecret, raw, PurposeVerifyEmail)
	return userID, err
}

func (m *TokenManager) ParseResetToken(raw string) (uuid.UUID, error) {
	userID, _, err := m.parse(m.accessSecret, raw, PurposeResetPassword)
	return userID, err
}
