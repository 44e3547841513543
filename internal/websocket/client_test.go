package websocket

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/rag/executor"

	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowAnalyst struct {
	delay time.Duration
}

func (s *slowAnalyst) CreateSession(ctx context.Context, userID string) (*dto.CreateSessionResponse, error) {
	return &dto.CreateSessionResponse{Id: "s-1"}, nil
}

func (s *slowAnalyst) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionStateResponse, error) {
	return &dto.SessionStateResponse{}, nil
}

func (s *slowAnalyst) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return nil
}

func (s *slowAnalyst) Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &dto.AskResponse{
		SessionId: req.SessionId,
		Final:     "answer: " + req.Question,
		Trace:     &executor.Trace{ID: "t-" + req.Question, Question: req.Question},
	}, nil
}

type frame struct {
	Type string `json:"type"`
	Data struct {
		Final string `json:"final"`
	} `json:"data"`
}

// serve starts a chat endpoint whose keepalive window is pongWait
func serve(t *testing.T, analyst *slowAnalyst, pongWait time.Duration) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil, logger.NewNopLogger())
	hub.pongWait = pongWait
	hub.pingPeriod = pongWait / 3
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ServeWs(ctx, hub, c, analyst, "s-1", "")
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)

	t.Cleanup(func() {
		cancel()
		_ = app.ShutdownWithTimeout(time.Second)
	})
	return "ws://" + ln.Addr().String() + "/ws"
}

func readFrame(t *testing.T, conn *fws.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(raw, &f), string(raw))
	return f
}

func TestSlowAnswerOutlivesKeepaliveWindow(t *testing.T) {
	pongWait := 300 * time.Millisecond
	url := serve(t, &slowAnalyst{delay: 3 * pongWait}, pongWait)

	conn, _, err := fws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "session", readFrame(t, conn).Type)

	require.NoError(t, conn.WriteJSON(map[string]string{"question": "q1"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"question": "q2"}))

	first := readFrame(t, conn)
	assert.Equal(t, "answer", first.Type)
	assert.Equal(t, "answer: q1", first.Data.Final)

	second := readFrame(t, conn)
	assert.Equal(t, "answer", second.Type)
	assert.Equal(t, "answer: q2", second.Data.Final)
}

func TestMalformedQuestionIsRejectedInline(t *testing.T) {
	url := serve(t, &slowAnalyst{}, time.Second)

	conn, _, err := fws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "session", readFrame(t, conn).Type)
	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte(`{"q":1}`)))
	assert.Equal(t, "error", readFrame(t, conn).Type)
}
