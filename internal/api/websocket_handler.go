package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/hangman-game/internal/config"
	"github.com/wfunc/hangman-game/internal/errors"
	"github.com/wfunc/hangman-game/internal/middleware"
	"github.com/wfunc/hangman-game/internal/service"
	ws "github.com/wfunc/hangman-game/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub         *ws.Hub
	authService service.AuthService
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, authService service.AuthService, cfg config.WebSocketConfig, origins []string, logger *zap.Logger) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				_, wildcard := allowed["*"]
				return ok || wildcard
			},
		},
		logger: logger,
	}
}

// Connect upgrades an authenticated request to a push feed.
// Browsers cannot set headers on the handshake, so the token may come
// from the accessToken cookie or the token query parameter.
func (h *WebSocketHandler) Connect(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		fail(c, errors.New(errors.ErrUnauthenticated, "missing access token"))
		return
	}
	claims, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID())
	if err := h.hub.Register(client); err != nil {
		conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}
