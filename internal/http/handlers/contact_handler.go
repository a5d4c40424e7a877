package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// ContactHandler — публичная контактная форма.
type ContactHandler struct {
	contacts *service.ContactService
}

func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	msg, err := h.contacts.Submit(c.Request.Context(), service.ContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
		UserType: req.UserType,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "обращение получено", "id": msg.ID})
}

// List — административная выдача обращений.
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	list, err := h.contacts.List(c.Request.Context(), limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"messages": list})
}
