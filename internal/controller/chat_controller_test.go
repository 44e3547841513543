package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"fin-analyst-be/internal/dto"
	"fin-analyst-be/internal/pkg/serverutils"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/sqlagent"
	"fin-analyst-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyst struct {
	err error
}

func (f *fakeAnalyst) CreateSession(ctx context.Context, userID string) (*dto.CreateSessionResponse, error) {
	return &dto.CreateSessionResponse{Id: "s-1"}, nil
}

func (f *fakeAnalyst) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionStateResponse, error) {
	return nil, store.ErrSessionNotFound
}

func (f *fakeAnalyst) DeleteSession(ctx context.Context, userID, sessionID string) error {
	return nil
}

func (f *fakeAnalyst) Ask(ctx context.Context, userID string, req *dto.AskRequest) (*dto.AskResponse, error) {
	res := &dto.AskResponse{
		SessionId: "s-1",
		Trace:     &executor.Trace{ID: "t-1", Question: req.Question},
	}
	if f.err != nil {
		res.Trace.Error = f.err.Error()
		return res, f.err
	}
	res.Final = "ok"
	return res, nil
}

func newApp(svc *fakeAnalyst) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(svc, serverutils.JwtMiddleware("")).RegisterRoutes(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestAskSuccess(t *testing.T) {
	code, body := do(t, newApp(&fakeAnalyst{}), "POST", "/api/chat/v1/ask", `{"question":"Revenue of AAPL?"}`)

	assert.Equal(t, 200, code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["final"])
}

func TestAskValidation(t *testing.T) {
	code, body := do(t, newApp(&fakeAnalyst{}), "POST", "/api/chat/v1/ask", `{}`)

	assert.Equal(t, 400, code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "Question")
}

func TestAskFailureCarriesTrace(t *testing.T) {
	err := fmt.Errorf("%w: missing sql", sqlagent.ErrSQLGeneration)
	code, body := do(t, newApp(&fakeAnalyst{err: err}), "POST", "/api/chat/v1/ask", `{"question":"Revenue?"}`)

	assert.Equal(t, 422, code)
	data := body["data"].(map[string]interface{})
	tr := data["trace"].(map[string]interface{})
	assert.Equal(t, "t-1", tr["id"])
	assert.NotEmpty(t, tr["error"])
}

func TestShowUnknownSession(t *testing.T) {
	code, _ := do(t, newApp(&fakeAnalyst{}), "GET", "/api/chat/v1/session/none", "")
	assert.Equal(t, 404, code)
}
