package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// fakeUserRepo — хранилище пользователей в памяти для тестов сервисов.
type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*models.User
	engineers map[uuid.UUID]*models.EngineerProfile
	clients   map[uuid.UUID]*models.ClientProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[uuid.UUID]*models.User),
		engineers: make(map[uuid.UUID]*models.EngineerProfile),
		clients:   make(map[uuid.UUID]*models.ClientProfile),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return common.ErrAlreadyExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.users[u.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Username = u.Username
	stored.FirstName = u.FirstName
	stored.LastName = u.LastName
	stored.PhoneNumber = u.PhoneNumber
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.PasswordHash = hash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	return nil
}

func (f *fakeUserRepo) MarkVerified(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			u.IsVerified = true
			u.VerificationToken = nil
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) SetVerificationToken(_ context.Context, id uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.VerificationToken = &token
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.ResetPasswordToken = &token
	u.ResetPasswordExpires = &expires
	return nil
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) GetEngineerProfile(_ context.Context, id uuid.UUID) (*models.EngineerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.engineers[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) UpsertEngineerProfile(_ context.Context, p *models.EngineerProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engineers[p.UserID] = p
	return nil
}

func (f *fakeUserRepo) GetClientProfile(_ context.Context, id uuid.UUID) (*models.ClientProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.clients[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) UpsertClientProfile(_ context.Context, p *models.ClientProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[p.UserID] = p
	return nil
}

// fakeMailer собирает отправленные письма.
type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	resets        []string
}

func (f *fakeMailer) SendVerification(to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, to)
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, to)
	return nil
}

func (f *fakeMailer) verificationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.verifications)
}

func (f *fakeMailer) resetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resets)
}

func newTestTokens() *TokenManager {
	return NewTokenManager("test-access", "test-refresh", time.Minute, time.Hour)
}

func TestSignup(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	svc := NewAuthService(repo, newTestTokens(), mail)

	user, err := svc.Signup(context.Background(), SignupInput{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "password1",
		Role:     models.RoleEngineer,
	})
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.NotNil(t, user.VerificationToken)
	assert.Equal(t, models.RoleEngineer, user.Role)

	assert.Eventually(t, func() bool {
		return mail.verificationCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Повторная регистрация на тот же email.
	_, err = svc.Signup(context.Background(), SignupInput{
		Username: "ivan2",
		Email:    "ivan@example.com",
		Password: "password1",
		Role:     models.RoleClient,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestSignupRejectsAdminRole(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newTestTokens(), &fakeMailer{})

	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "password1",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, verified bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		ID:           uuid.New(),
		Username:     email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
		IsVerified:   verified,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newTestTokens(), &fakeMailer{})
	seedUser(t, repo, "user@example.com", "password1", true)

	t.Run("успешный вход", func(t *testing.T) {
		user, pair, err := svc.Login(context.Background(), "user@example.com", "password1")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "user@example.com", user.Email)
	})

	t.Run("неизвестный email и неверный пароль неразличимы", func(t *testing.T) {
		_, _, err1 := svc.Login(context.Background(), "nobody@example.com", "password1")
		_, _, err2 := svc.Login(context.Background(), "user@example.com", "wrongpass1")
		require.Error(t, err1)
		require.Error(t, err2)
		assert.Equal(t, err1.Error(), err2.Error())
	})
}

func TestLoginUnverified(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newTestTokens(), &fakeMailer{})
	seedUser(t, repo, "new@example.com", "password1", false)

	_, _, err := svc.Login(context.Background(), "new@example.com", "password1")
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestVerifyEmailFlow(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newTestTokens()
	svc := NewAuthService(repo, tokens, &fakeMailer{})

	user, err := svc.Signup(context.Background(), SignupInput{
		Username: "petr",
		Email:    "petr@example.com",
		Password: "password1",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(context.Background(), *user.VerificationToken))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)

	// Использованный токен больше не работает.
	err = svc.VerifyEmail(context.Background(), *user.VerificationToken)
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	svc := NewAuthService(repo, newTestTokens(), mail)
	user := seedUser(t, repo, "reset@example.com", "oldpass12", true)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "reset@example.com"))
	assert.Eventually(t, func() bool {
		return mail.resetCount() == 1
	}, time.Second, 10*time.Millisecond)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)

	require.NoError(t, svc.VerifyResetToken(context.Background(), *stored.ResetPasswordToken))
	require.NoError(t, svc.ResetPassword(context.Background(), *stored.ResetPasswordToken, "newpass12"))

	_, _, err = svc.Login(context.Background(), "reset@example.com", "newpass12")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "reset@example.com", "oldpass12")
	assert.Error(t, err)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), newTestTokens(), &fakeMailer{})

	// Для неизвестного адреса отвечаем успехом, письма нет.
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestSetUserActive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, newTestTokens(), &fakeMailer{})
	user := seedUser(t, repo, "blocked@example.com", "password1", true)

	require.NoError(t, svc.SetUserActive(context.Background(), user.ID, false))

	_, _, err := svc.Login(context.Background(), "blocked@example.com", "password1")
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))

	err = svc.SetUserActive(context.Background(), uuid.New(), false)
	assert.True(t, apperror.IsNotFound(err))
}
