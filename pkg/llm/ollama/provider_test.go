package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fin-analyst-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMapsRolesAndJSONFormat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"route\":\"RAG\"}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.1")
	out, err := p.Chat(context.Background(), []llm.Message{
		llm.System("route it"),
		{Role: "model", Content: "earlier answer"},
		llm.User("What risks does Microsoft mention?"),
	}, llm.WithTemperature(0), llm.WithJSON())

	require.NoError(t, err)
	assert.Equal(t, `{"route":"RAG"}`, out)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	assert.Equal(t, 1024, got.Options.NumPredict)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, llm.RoleAssistant, got.Messages[1].Role)
}

func TestChatSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"nope\" not found, try pulling it first"}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "nope").Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}
