package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/levkonnect-backend/internal/logger"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
	"github.com/ignatzorin/levkonnect-backend/internal/ws"
)

// WSHandler апгрейдит соединение и подключает пользователя к хабу.
// Токен передается query-параметром: браузерный WebSocket не умеет
// выставлять заголовок Authorization.
type WSHandler struct {
	hub      *ws.Hub
	tokens   *service.TokenManager
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, tokens *service.TokenManager) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется токен"})
		return
	}
	userID, _, err := h.tokens.ParseAccess(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "недействительный токен"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("апгрейд ws-соединения")
		return
	}
	ws.Serve(h.hub, conn, userID)
}
