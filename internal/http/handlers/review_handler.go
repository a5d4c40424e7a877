package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/dto"
	"github.com/ignatzorin/levkonnect-backend/internal/http/handlers/common"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
)

// ReviewHandler — отзывы по завершенным проектам.
type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	caller, ok := common.CurrentCaller(c)
	if !ok {
		common.Fail(c, apperror.ErrUnauthorized)
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, apperror.New(apperror.ErrCodeValidation, "некорректное тело запроса"))
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), caller, service.ReviewInput{
		ProjectID: common.ParamUUID(c, "id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"message": "отзыв сохранен", "review": review})
}

// ListForUser — отзывы, полученные пользователем.
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	reviews, err := h.reviews.ListForUser(c.Request.Context(), common.ParamUUID(c, "id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.RespondOK(c, gin.H{"reviews": reviews})
}
