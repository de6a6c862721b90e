package websocket

import (
	"context"
	"net/http"
	"strings"

	"message-api/internal/events"
	"message-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub      *Hub
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, l *logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and streams message events. With ?author=<id>
// only events for that author's messages are sent.
func (h *Handler) Connect(c *gin.Context) {
	channel := events.MessagesChannel
	if author := strings.TrimSpace(c.Query("author")); author != "" {
		channel = events.UserChannel(author)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.ErrorCtx(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}

	client := NewClient(conn, channel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	client.ReadLoop()

	h.hub.Unregister(client)
}
