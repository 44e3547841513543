package openai

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

func TestChatSendsMessagesAndTemperature(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"route\":\"SQL\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "secret", "test-model")
	out, err := p.Chat(context.Background(), []llm.Message{
		llm.System("route it"),
		llm.User("What is the market cap of Tesla?"),
	}, llm.WithTemperature(0))

	require.NoError(t, err)
	assert.Equal(t, `{"route":"SQL"}`, out)
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.0, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Nil(t, got.Format)
}

func TestChatRequestsJSONObject(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{}"}}]}`))
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL, "", "").Generate(context.Background(), "reply in JSON", llm.WithJSON())

	require.NoError(t, err)
	require.NotNil(t, got.Format)
	assert.Equal(t, "json_object", got.Format.Type)
}

func TestChatPropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "wrong", "")
	_, err := p.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
