package bootstrap

import (
	"context"
	"testing"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/rag/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Ai: config.AIConfig{
			LLMProvider:       "ollama",
			LLMModel:          "llama3",
			EmbeddingProvider: "hash",
			EmbeddingDims:     64,
		},
		Data:      config.DataConfig{Engine: "sqlite", TablePath: "../../pkg/sqlengine/testdata/financial_data.csv"},
		Index:     config.IndexConfig{Backend: "chromem", Collection: "bootstrap"},
		Retrieval: config.RetrievalConfig{K: 4, GlobalK: 20},
	}
}

func TestNewEngineWithEmbeddedBackends(t *testing.T) {
	e, err := NewEngine(context.Background(), testConfig(), nil, executor.MultiRecorder{}, logger.NewNopLogger())
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, "SQLite", e.Data.Dialect())
	assert.NotNil(t, e.Orchestrator)
	assert.NotNil(t, e.Builder)

	ticker, ok, err := e.Data.TickerForCompany(context.Background(), "Tesla")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TSLA", ticker)
}

func TestNewEngineNeedsDatabaseForPostgresBackends(t *testing.T) {
	cfg := testConfig()
	cfg.Index.Backend = "pgvector"

	_, err := NewEngine(context.Background(), cfg, nil, nil, logger.NewNopLogger())
	assert.ErrorContains(t, err, "DB_CONNECTION_STRING")
}

func TestNewEngineRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Ai.LLMProvider = "mystery"

	_, err := NewEngine(context.Background(), cfg, nil, nil, logger.NewNopLogger())
	assert.Error(t, err)
}
