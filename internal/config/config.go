package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ai        AIConfig
	Data      DataConfig
	Index     IndexConfig
	Retrieval RetrievalConfig
	Session   SessionConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LogLevel           string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	// JWTSecret enables bearer auth on the API when set
	JWTSecret string
}

type AIConfig struct {
	LLMProvider     string // "groq", "openai", "ollama", "anthropic", "gemini"
	LLMModel        string
	LLMBaseURL      string
	LLMAPIKey       string
	RouterAllowBoth bool

	EmbeddingProvider string // "ollama", "gemini" or "hash"
	EmbeddingModel    string
	EmbeddingDims     int
	OllamaBaseURL     string
	GeminiAPIKey      string
}

type DataConfig struct {
	// Engine is "sqlite" (in-memory, loaded from TablePath) or "postgres"
	Engine    string
	TablePath string
}

type IndexConfig struct {
	// Backend is "chromem" (embedded, persisted under Path) or "pgvector"
	Backend     string
	Path        string
	Collection  string
	Compress    bool
	DocsDir     string
	Concurrency int
}

type RetrievalConfig struct {
	K       int
	GlobalK int
}

type SessionConfig struct {
	// Store is "memory" or "redis"
	Store      string
	TTLMinutes int
}

// TelemetryConfig controls OpenTelemetry export. Off unless OTEL_ENABLED=true.
type TelemetryConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

type EventsConfig struct {
	IngestTopic   string
	PublishTraces bool
	PersistTraces bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
			LLMModel:        getEnv("LLM_MODEL", ""),
			LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:       firstEnv("LLM_API_KEY", "GROQ_API_KEY"),
			RouterAllowBoth: getEnvAsBool("ROUTER_ALLOW_BOTH", false),

			EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "ollama")),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDims:     getEnvAsInt("EMBEDDING_DIMS", 768),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Data: DataConfig{
			Engine:    strings.ToLower(getEnv("DATA_ENGINE", "sqlite")),
			TablePath: getEnv("FINANCIAL_TABLE_PATH", "data/financial_data.csv"),
		},
		Index: IndexConfig{
			Backend:     strings.ToLower(getEnv("INDEX_BACKEND", "chromem")),
			Path:        getEnv("INDEX_PATH", "index/chroma"),
			Collection:  getEnv("INDEX_COLLECTION", "financial_docs"),
			Compress:    getEnvAsBool("INDEX_COMPRESS", false),
			DocsDir:     getEnv("DOCS_DIR", "data/docs"),
			Concurrency: getEnvAsInt("INDEX_CONCURRENCY", 4),
		},
		Retrieval: RetrievalConfig{
			K:       getEnvAsInt("RETRIEVAL_K", 4),
			GlobalK: getEnvAsInt("RETRIEVAL_GLOBAL_K", 20),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(getEnv("SESSION_STORE", "memory")),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Events: EventsConfig{
			IngestTopic:   getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
			PublishTraces: getEnvAsBool("PUBLISH_TRACES", false),
			PersistTraces: getEnvAsBool("PERSIST_TRACES", true),
		},
		Telemetry: TelemetryConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "fin-analyst-backend"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1.0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
