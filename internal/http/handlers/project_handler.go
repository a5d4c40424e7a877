package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// ProjectHandler — проекты, этапы и сообщения.
type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) List(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	limit, offset := common.GetPagination(c)
	projects, err := h.projects.List(c.Request.Context(), caller, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"projects": projects})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	details, err := h.projects.GetDetails(c.Request.Context(), caller, common.ParamUUID(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, details)
}

func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	project, err := h.projects.UpdateStatus(c.Request.Context(), caller, common.ParamUUID(c, "id"), req.Status)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"message": "статус проекта обновлен", "project": project})
}

func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	milestone, err := h.projects.CreateMilestone(c.Request.Context(), caller,
		common.ParamUUID(c, "id"), service.MilestoneInput{
			Title:       req.Title,
			Description: req.Description,
			Amount:      req.Amount,
			DueDate:     req.DueDate,
		})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "этап создан", "milestone": milestone})
}

func (h *ProjectHandler) UpdateMilestoneStatus(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	milestone, err := h.projects.UpdateMilestoneStatus(c.Request.Context(), caller,
		common.ParamUUID(c, "id"), common.ParamUUID(c, "milestone_id"), req.Status)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"message": "статус этапа обновлен", "milestone": milestone})
}

func (h *ProjectHandler) SendMessage(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	message, err := h.projects.SendMessage(c.Request.Context(), caller,
		common.ParamUUID(c, "id"), req.Content)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "сообщение отправлено", "data": message})
}
