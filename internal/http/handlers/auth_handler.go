package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// AuthHandler — регистрация, вход и восстановление доступа.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, dto.AuthResponse{
		Message: "регистрация успешна, подтвердите email по ссылке из письма",
		User:    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dto.AuthResponse{
		Message:      "вход выполнен",
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, dto.AuthResponse{
		Message:      "токены обновлены",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "токен обязателен"))
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), token); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "email подтвержден")
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	if err := h.auth.ResendVerification(c.Request.Context(), req.Email); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "если адрес зарегистрирован, письмо отправлено")
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "если адрес зарегистрирован, письмо отправлено")
}

func (h *AuthHandler) VerifyResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "токен обязателен"))
		return
	}
	if err := h.auth.VerifyResetToken(c.Request.Context(), token); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "токен действителен")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "пароль изменен")
}

// ListUsers — административный список пользователей.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	users, err := h.auth.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"users": users})
}

// UpdateUserStatus блокирует или разблокирует учетную запись.
func (h *AuthHandler) UpdateUserStatus(c *gin.Context) {
	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	if err := h.auth.SetUserActive(c.Request.Context(), common.ParamUUID(c, "id"), *req.IsActive); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "статус пользователя обновлен")
}
