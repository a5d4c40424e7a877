package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
)

// RateLimitMiddleware ограничивает частоту запросов по IP.
// Формат rate — как у ulule/limiter, например "20-M".
func RateLimitMiddleware(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		logger.Log.WithError(err).Fatal("некорректный формат лимита")
	}
	lim := limiter.New(memory.NewStore(), parsed)

	return func(c *gin.Context) {
		ctx, err := lim.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}
		if ctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "слишком много запросов"})
			return
		}
		c.Next()
	}
}
