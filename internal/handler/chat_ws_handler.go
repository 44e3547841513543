package handler

import (
	"context"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/service"
	internalWS "fin-analyst-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler serves /ws/chat: one connection is one conversation session.
type ChatHandler struct {
	analyst   service.IAnalystService
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewChatHandler(analyst service.IAnalystService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		analyst:   analyst,
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/chat", h.ServeWs)
}

// ServeWs authenticates the handshake, resolves the session and upgrades.
// ?session_id= resumes a session; without it a new one is created.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	var userID string
	if h.jwtSecret != "" {
		// Priority 1: Query Param (Browser standard)
		tokenStr := c.Query("token")
		// Priority 2: Authorization Header (Tooling/Non-browser standard)
		if tokenStr == "" {
			tokenStr = serverutils.BearerToken(c)
		}
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		id, err := serverutils.ParseToken(tokenStr, h.jwtSecret)
		if err != nil {
			h.logger.Warn("ChatHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err.Error()})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		userID = id
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		created, err := h.analyst.CreateSession(c.UserContext(), userID)
		if err != nil {
			return err
		}
		sessionID = created.Id
	} else if _, err := h.analyst.GetSession(c.UserContext(), userID, sessionID); err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(context.Background(), h.hub, conn, h.analyst, sessionID, userID)
		h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}
