package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDValidator проверяет, что параметры пути являются корректными uuid.
func UUIDValidator(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range params {
			if _, err := uuid.Parse(c.Param(p)); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "некорректный идентификатор"})
				return
			}
		}
		c.Next()
	}
}
