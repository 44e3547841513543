package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/rag/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRoutesTracesBySession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	a := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, SessionID: "b", Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 2
	}, time.Second, 5*time.Millisecond)

	hub.Record(ctx, &executor.Trace{ID: "t-1", SessionID: "a"})

	select {
	case raw := <-a.Send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "trace", msg["type"])
	case <-time.After(time.Second):
		t.Fatal("session a got no trace")
	}
	assert.Len(t, b.Send, 0)

	hub.unregister <- a
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients["a"]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestStoppedHubDoesNotBlockClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil, logger.NewNopLogger())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	c := &Client{Hub: hub, SessionID: "a", Send: make(chan []byte, 1)}
	left := make(chan bool)
	go func() {
		joined := hub.join(c)
		hub.leave(c)
		left <- joined
	}()

	select {
	case joined := <-left:
		assert.False(t, joined)
	case <-time.After(time.Second):
		t.Fatal("join/leave blocked on a stopped hub")
	}
}
