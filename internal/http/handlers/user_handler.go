package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/models"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// UserHandler — личный кабинет.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	profile, err := h.users.GetProfile(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, profile)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	in := service.UpdateProfileInput{
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	switch caller.Role {
	case models.RoleEngineer:
		in.Engineer = &models.EngineerProfile{
			Title:           req.Title,
			Bio:             req.Bio,
			Skills:          pq.StringArray(req.Skills),
			ExperienceYears: req.ExperienceYears,
			HourlyRate:      req.HourlyRate,
			Availability:    req.Availability,
			Location:        req.Location,
		}
		if in.Engineer.Skills == nil {
			in.Engineer.Skills = pq.StringArray{}
		}
	case models.RoleClient:
		in.Client = &models.ClientProfile{
			CompanyName: req.CompanyName,
			CompanySize: req.CompanySize,
			Industry:    req.Industry,
			Description: req.Description,
			Website:     req.Website,
			Location:    req.Location,
		}
	}

	profile, err := h.users.UpdateProfile(c.Request.Context(), caller.ID, in)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, profile)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "пароль изменен")
}
