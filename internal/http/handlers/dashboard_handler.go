package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// DashboardHandler — метрики личных кабинетов.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) ClientMetrics(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	metrics, err := h.dashboard.ClientMetrics(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, metrics)
}

func (h *DashboardHandler) EngineerMetrics(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	metrics, err := h.dashboard.EngineerMetrics(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, metrics)
}
