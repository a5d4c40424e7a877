package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/levkonnect-backend/internal/http/middleware"
	"github.com/ignatzorin/levkonnect-backend/internal/policy"
)

// RespondOK — успешный ответ с данными.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated — 201 с данными.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// RespondMessage — успешный ответ с одним текстовым полем.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Fail складывает ошибку для ErrorHandler и обрывает цепочку.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// CurrentCaller собирает субъекта авторизации из контекста gin.
func CurrentCaller(c *gin.Context) (policy.Caller, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		return policy.Caller{}, false
	}
	role := c.GetString(middleware.ContextRoleKey)
	return policy.Caller{ID: id, Role: role}, true
}

// ParamUUID возвращает uuid-параметр пути. Формат уже проверен
// UUIDValidator, поэтому ошибки здесь быть не должно.
func ParamUUID(c *gin.Context, name string) uuid.UUID {
	id, _ := uuid.Parse(c.Param(name))
	return id
}

// GetPagination читает limit/offset с разумными пределами.
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
