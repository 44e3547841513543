package bootstrap

import (
	"context"
	"fmt"
	"os"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/internal/repository/implementation"
	"fin-analyst-be/pkg/ai/router"
	"fin-analyst-be/pkg/conversation"
	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/ingest"
	"fin-analyst-be/pkg/llm"
	"fin-analyst-be/pkg/llm/factory"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/rag/response"
	"fin-analyst-be/pkg/rag/retrieval"
	"fin-analyst-be/pkg/sqlagent"
	"fin-analyst-be/pkg/sqlengine"
	"fin-analyst-be/pkg/vectorindex"

	"gorm.io/gorm"
)

// DataSource is the structured side: SQL execution plus company lookups
type DataSource interface {
	sqlengine.Engine
	sqlengine.Directory
}

// Engine is the question-answering core shared by the API and the CLI
type Engine struct {
	Orchestrator *executor.Orchestrator
	Retriever    *retrieval.Coordinator
	Data         DataSource
	Index        vectorindex.Index
	Builder      *ingest.Builder
	Provider     llm.LLMProvider

	closers []func() error
}

// NewEngine wires providers, the structured engine and the vector index.
// db is only required for the postgres and pgvector backends.
func NewEngine(ctx context.Context, cfg *config.Config, db *gorm.DB, recorder executor.TraceRecorder, log logger.ILogger) (*Engine, error) {
	e := &Engine{}

	provider, err := NewLLMProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.Provider = provider

	data, err := e.openData(ctx, cfg, db)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.Data = data

	index, err := NewIndex(ctx, cfg, db)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.Index = index

	companies, err := data.Companies(ctx)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("read companies: %w", err)
	}
	e.Builder = ingest.NewBuilder(index, sqlengine.TickerNames(companies), ingest.ConfigWithConcurrency(cfg.Index.Concurrency), log)

	e.Retriever = retrieval.NewCoordinator(index, log)
	e.Orchestrator = executor.NewOrchestrator(
		conversation.NewMemory(),
		router.NewRouter(provider, log, cfg.Ai.RouterAllowBoth),
		sqlagent.NewGenerator(provider, data.Dialect(), log),
		data,
		e.Retriever,
		response.NewSynthesizer(provider, log),
		recorder,
		log,
		executor.Config{RetrievalK: cfg.Retrieval.K},
	)

	log.Info("BOOTSTRAP", "Engine ready", map[string]interface{}{
		"llm_provider":  cfg.Ai.LLMProvider,
		"data_engine":   data.Dialect(),
		"index_backend": cfg.Index.Backend,
		"allow_both":    cfg.Ai.RouterAllowBoth,
	})
	return e, nil
}

func NewLLMProvider(ctx context.Context, cfg *config.Config) (llm.LLMProvider, error) {
	baseURL := cfg.Ai.LLMBaseURL
	if baseURL == "" && cfg.Ai.LLMProvider == "ollama" {
		baseURL = cfg.Ai.OllamaBaseURL
	}
	apiKey := cfg.Ai.LLMAPIKey
	if apiKey == "" && cfg.Ai.LLMProvider == "gemini" {
		apiKey = cfg.Ai.GeminiAPIKey
	}

	provider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  baseURL,
		APIKey:   apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	return provider, nil
}

func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	embedder, err := embedding.NewEmbedder(ctx, embedding.Settings{
		Provider: cfg.Ai.EmbeddingProvider,
		Model:    cfg.Ai.EmbeddingModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GeminiAPIKey,
		Dims:     cfg.Ai.EmbeddingDims,
	})
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return embedder, nil
}

// NewIndex opens the configured vector index
func NewIndex(ctx context.Context, cfg *config.Config, db *gorm.DB) (vectorindex.Index, error) {
	embedder, err := NewEmbedder(ctx, cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Index.Backend {
	case "pgvector":
		if db == nil {
			return nil, fmt.Errorf("pgvector index needs DB_CONNECTION_STRING")
		}
		return implementation.NewDocumentChunkRepository(db, embedder, cfg.Index.Concurrency), nil
	case "chromem", "":
		return vectorindex.NewChromemIndex(cfg.Index.Path, cfg.Index.Collection, embedder, cfg.Index.Compress)
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", cfg.Index.Backend)
	}
}

func (e *Engine) openData(ctx context.Context, cfg *config.Config, db *gorm.DB) (DataSource, error) {
	switch cfg.Data.Engine {
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres data engine needs DB_CONNECTION_STRING")
		}
		engine := sqlengine.NewGormEngine(db)
		if err := engine.Migrate(ctx); err != nil {
			return nil, err
		}
		// the table file is optional once the table has been seeded
		if _, err := os.Stat(cfg.Data.TablePath); err == nil {
			companies, err := sqlengine.ReadCompanies(cfg.Data.TablePath)
			if err != nil {
				return nil, err
			}
			if err := engine.Load(ctx, companies); err != nil {
				return nil, err
			}
		}
		return engine, nil
	case "sqlite", "":
		engine, err := sqlengine.NewSQLiteEngineFromFile(ctx, cfg.Data.TablePath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.Data.TablePath, err)
		}
		e.closers = append(e.closers, engine.Close)
		return engine, nil
	default:
		return nil, fmt.Errorf("unsupported data engine: %s", cfg.Data.Engine)
	}
}

func (e *Engine) Close() error {
	var first error
	for _, c := range e.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
