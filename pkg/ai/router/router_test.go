package router

import (
	"context"
	"errors"
	"testing"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLLM struct {
	reply    string
	err      error
	messages []llm.Message
	options  *llm.Options
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.messages = history
	s.options = llm.Apply(opts...)
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{llm.User(prompt)}, opts...)
}

func newRouter(reply string, allowBoth bool) (*Router, *scriptedLLM) {
	fake := &scriptedLLM{reply: reply}
	return NewRouter(fake, logger.NewNopLogger(), allowBoth), fake
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		allowBoth  bool
		question   string
		wantRoute  Route
		wantReason string
	}{
		{
			name:       "sql",
			reply:      `{"route":"SQL","reason":"numeric fact"}`,
			question:   "What is the market cap of Tesla?",
			wantRoute:  RouteSQL,
			wantReason: "numeric fact",
		},
		{
			name:       "rag with prose around json",
			reply:      "Here you go: {\"route\":\"RAG\",\"reason\":\"qualitative\"}",
			question:   "What risks did Apple mention?",
			wantRoute:  RouteRAG,
			wantReason: "qualitative",
		},
		{
			name:       "unknown route",
			reply:      `{"route":"GRAPH","reason":"?"}`,
			question:   "anything",
			wantRoute:  RouteRAG,
			wantReason: InvalidRouteReason,
		},
		{
			name:       "lower-case route is not a route",
			reply:      `{"route":"sql","reason":"numeric fact"}`,
			question:   "What is the market cap of Tesla?",
			wantRoute:  RouteRAG,
			wantReason: InvalidRouteReason,
		},
		{
			name:       "both rejected by default",
			reply:      `{"route":"BOTH","reason":"mixed"}`,
			question:   "How did revenue change and why?",
			wantRoute:  RouteRAG,
			wantReason: InvalidRouteReason,
		},
		{
			name:       "both accepted when enabled",
			reply:      `{"route":"BOTH","reason":"mixed"}`,
			allowBoth:  true,
			question:   "Compare revenue and explain the drivers",
			wantRoute:  RouteBoth,
			wantReason: "mixed",
		},
		{
			name:       "garbage output",
			reply:      "I think SQL",
			question:   "anything",
			wantRoute:  RouteRAG,
			wantReason: InvalidRouteReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(tt.reply, tt.allowBoth)
			d, err := r.Route(context.Background(), tt.question)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, d.Route)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

func TestRouteForcesRAGForNarrativeBoth(t *testing.T) {
	r, _ := newRouter(`{"route":"BOTH","reason":"needs both"}`, true)

	d, err := r.Route(context.Background(), "What are the AI initiatives mentioned by Microsoft?")

	require.NoError(t, err)
	assert.Equal(t, RouteRAG, d.Route)
	assert.True(t, d.Overridden)
	assert.Equal(t, "BOTH", d.Requested)
	assert.Equal(t, "needs both", d.Reason)
}

func TestRouteSendsTemperatureZeroAndQuestion(t *testing.T) {
	r, fake := newRouter(`{"route":"SQL","reason":"x"}`, false)

	_, err := r.Route(context.Background(), "Top 3 companies by revenue")
	require.NoError(t, err)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llm.RoleSystem, fake.messages[0].Role)
	assert.Contains(t, fake.messages[1].Content, "Question: Top 3 companies by revenue")
	assert.Contains(t, fake.messages[1].Content, `"SQL" | "RAG"`)
	assert.Equal(t, 0.0, fake.options.Temperature)
}

func TestRouteProviderErrorPropagates(t *testing.T) {
	fake := &scriptedLLM{err: errors.New("401 unauthorized")}
	r := NewRouter(fake, logger.NewNopLogger(), false)

	_, err := r.Route(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestShouldForceRAG(t *testing.T) {
	assert.True(t, ShouldForceRAG("What are the AI initiatives mentioned by Microsoft?"))
	assert.True(t, ShouldForceRAG("Explain the strategy"))
	assert.False(t, ShouldForceRAG("Why did revenue grow?"))
	assert.False(t, ShouldForceRAG("Market cap of Tesla"))
	assert.False(t, ShouldForceRAG("List tickers"))
}
