package sqlagent

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
	replies []string
	prompts []string
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, history[len(history)-1].Content)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{llm.User(prompt)}, opts...)
}

func TestIsSafeSQL(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT * FROM financial_overview", true},
		{"  select ticker from FINANCIAL_OVERVIEW where ticker='TSLA'", true},
		{"WITH x AS (SELECT 1) SELECT * FROM financial_overview", false},
		{"SELECT * FROM other_table", false},
		{"SELECT * FROM financial_overview; DROP TABLE financial_overview", false},
		{"SELECT created_at FROM financial_overview", false},
		{"SELECT * FROM financial_overview WHERE sector = 'copy'", false},
		{"DELETE FROM financial_overview", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSafeSQL(tt.sql))
		})
	}
}

func TestGenerate(t *testing.T) {
	fake := &scriptedLLM{replies: []string{
		"```json\n{\"sql\": \"SELECT market_cap_billions FROM financial_overview WHERE ticker = 'TSLA'\"}\n```",
	}}
	g := NewGenerator(fake, "SQLite", logger.NewNopLogger())

	c, err := g.Generate(context.Background(), "What is the market cap of Tesla?")
	require.NoError(t, err)

	assert.True(t, c.Validated)
	assert.Equal(t, "SELECT market_cap_billions FROM financial_overview WHERE ticker = 'TSLA'", c.SQL)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "SQL generator for SQLite")
	assert.Contains(t, fake.prompts[0], "market_cap_billions (number)")
	assert.Contains(t, fake.prompts[0], "What is the market cap of Tesla?")
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "SELECT * FROM financial_overview"},
		{"missing field", `{"query": "SELECT * FROM financial_overview"}`},
		{"empty sql", `{"sql": "   "}`},
		{"unsafe sql", `{"sql": "DROP TABLE financial_overview"}`},
		{"wrong table", `{"sql": "SELECT * FROM users"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&scriptedLLM{replies: []string{tt.reply}}, "SQLite", logger.NewNopLogger())
			_, err := g.Generate(context.Background(), "q")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSQLGeneration))
		})
	}
}

func TestRepairIncludesFailedSQLAndError(t *testing.T) {
	fake := &scriptedLLM{replies: []string{`{"sql": "SELECT revenue_2023_billions FROM financial_overview"}`}}
	g := NewGenerator(fake, "SQLite", logger.NewNopLogger())

	c, err := g.Repair(context.Background(), "Revenue?", "SELECT revenue FROM financial_overview", "no such column: revenue")
	require.NoError(t, err)

	assert.Equal(t, "SELECT revenue_2023_billions FROM financial_overview", c.SQL)
	assert.Contains(t, fake.prompts[0], "SQL repair function for SQLite")
	assert.Contains(t, fake.prompts[0], "SELECT revenue FROM financial_overview")
	assert.Contains(t, fake.prompts[0], "no such column: revenue")
}

func TestProviderErrorIsNotGenerationError(t *testing.T) {
	g := NewGenerator(&scriptedLLM{}, "SQLite", logger.NewNopLogger())
	_, err := g.Generate(context.Background(), "q")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSQLGeneration))
}
