package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// JobHandler — публикация работ и ставки.
type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func jobInputFromRequest(req dto.JobRequest) service.JobInput {
	return service.JobInput{
		Title:          req.Title,
		Category:       req.Category,
		Description:    req.Description,
		Budget:         req.Budget,
		Location:       req.Location,
		DurationDays:   req.DurationDays,
		RequiredSkills: req.RequiredSkills,
		Deadline:       req.Deadline,
	}
}

func (h *JobHandler) Create(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), caller, jobInputFromRequest(req))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "работа опубликована", "job": job})
}

// List — публичная выдача работ.
func (h *JobHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	jobs, err := h.jobs.ListJobs(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"jobs": jobs})
}

// Get — публичная карточка работы; ставки видны только владельцу и админу.
func (h *JobHandler) Get(c *gin.Context) {
	var caller *policy.Caller
	if cur, ok := common.CurrentCaller(c); ok {
		caller = &cur
	}

	job, bids, err := h.jobs.GetJob(c.Request.Context(), caller, common.ParamUUID(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, dto.JobResponse{Job: job, Bids: bids})
}

func (h *JobHandler) Update(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	job, err := h.jobs.UpdateJob(c.Request.Context(), caller, common.ParamUUID(c, "id"), jobInputFromRequest(req))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"message": "работа обновлена", "job": job})
}

func (h *JobHandler) Delete(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	if err := h.jobs.DeleteJob(c.Request.Context(), caller, common.ParamUUID(c, "id")); err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondMessage(c, http.StatusOK, "работа удалена")
}

// ClientJobs — работы текущего заказчика.
func (h *JobHandler) ClientJobs(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	jobs, err := h.jobs.ListClientJobs(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"jobs": jobs})
}

// Recommended — открытые работы для ленты инженера.
func (h *JobHandler) Recommended(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	jobs, err := h.jobs.ListRecommended(c.Request.Context(), limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"jobs": jobs})
}

// CreateBid — подача ставки инженером.
func (h *JobHandler) CreateBid(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректный идентификатор работы"))
		return
	}

	bid, err := h.jobs.CreateBid(c.Request.Context(), caller, service.BidInput{
		JobID:        jobID,
		Amount:       req.Amount,
		DeliveryDays: req.DeliveryDays,
		CoverLetter:  req.CoverLetter,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "ставка подана", "bid": bid})
}

// MyBids — ставки текущего инженера.
func (h *JobHandler) MyBids(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}
	bids, err := h.jobs.ListMyBids(c.Request.Context(), caller.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"bids": bids})
}

// AcceptBid — принятие ставки владельцем работы.
func (h *JobHandler) AcceptBid(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	bid, project, err := h.jobs.AcceptBid(c.Request.Context(), caller,
		common.ParamUUID(c, "id"), common.ParamUUID(c, "bidId"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, dto.AcceptBidResponse{
		Message: "ставка принята, проект создан",
		Bid:     bid,
		Project: project,
	})
}
