package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
	"github.com/ignatzorin/levkonnect-backend/internal/pkg/apperror"
	"github.com/ignatzorin/levkonnect-backend/internal/repository/common"
)

// ErrorHandler переводит ошибки, сложенные в c.Errors, в HTTP-ответы.
// Внутренние подробности наружу не уходят: клиент видит только
// сообщение AppError, для 500 — обезличенный текст.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Log.WithError(err).Error("внутренняя ошибка")
				c.JSON(appErr.HTTPStatus, gin.H{"error": "внутренняя ошибка сервера"})
				return
			}
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		switch {
		case errors.Is(err, common.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ресурс не найден"})
		case errors.Is(err, common.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "ресурс уже существует"})
		default:
			logger.Log.WithError(err).Error("необработанная ошибка")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
		}
	}
}
