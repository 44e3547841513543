package websocket

import (
	"context"

	"fin-analyst-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one chat connection until the peer goes away.
func ServeWs(ctx context.Context, hub *Hub, c *websocket.Conn, analyst service.IAnalystService, sessionID, userID string) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		SessionID: sessionID,
		UserID:    userID,
		Send:      make(chan []byte, 64),
		questions: make(chan string, maxPending),
		analyst:   analyst,
	}
	if !client.Hub.join(client) {
		return
	}
	client.reply(outbound{Type: "session", Data: map[string]string{"session_id": sessionID}})

	go client.writePump()
	client.readPump(ctx) // Run readPump in current goroutine (handler)
}
