package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// NotificationHandler — лента уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	limit, offset := common.GetPagination(c)
	list, err := h.notifications.List(c.Request.Context(), caller.ID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), common.ParamUUID(c, "id"), caller.ID); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "уведомление прочитано")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	if err := h.notifications.MarkAllRead(c.Request.Context(), caller.ID); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "все уведомления прочитаны")
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	n, err := h.notifications.CountUnread(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, dto.UnreadCountResponse{Count: n})
}
