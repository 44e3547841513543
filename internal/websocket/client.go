package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/internal/service"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	maxPending     = 8
)

// Client is one websocket connection bound to one conversation session.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	SessionID string
	UserID    string

	// Buffered channel of outbound messages.
	Send chan []byte

	// questions waiting for the answer loop
	questions chan string

	analyst service.IAnalystService
}

type inbound struct {
	Question string `json:"question"`
}

type outbound struct {
	Type    string      `json:"type"`
	Code    int         `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// readPump reads questions and hands them to the answer loop, so pongs keep
// being serviced while an answer is in flight. Questions on one connection
// are answered one at a time, in arrival order.
func (c *Client) readPump(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.answerLoop(ctx)
	}()

	defer func() {
		close(c.questions)
		cancel()
		// Send is closed on unregister; no reply may follow it
		wg.Wait()
		c.Hub.leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil || in.Question == "" {
			c.reply(outbound{Type: "error", Message: "expected {\"question\": \"...\"}"})
			continue
		}

		select {
		case c.questions <- in.Question:
		default:
			c.reply(outbound{Type: "error", Code: 429, Message: "too many pending questions"})
		}
	}
}

// answerLoop answers queued questions until the queue is closed. Once ctx is
// done the remaining questions are dropped.
func (c *Client) answerLoop(ctx context.Context) {
	for question := range c.questions {
		if ctx.Err() != nil {
			continue
		}
		res, err := c.analyst.Ask(ctx, c.UserID, &dto.AskRequest{SessionId: c.SessionID, Question: question})
		if err != nil {
			c.reply(outbound{Type: "error", Message: err.Error(), Code: serverutils.StatusFor(err), Data: res})
			continue
		}
		c.reply(outbound{Type: "answer", Data: res})
	}
}

func (c *Client) reply(msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Client", "Send buffer full, dropping reply", map[string]interface{}{"session_id": c.SessionID})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.Hub.pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
