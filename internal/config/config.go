package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMAPIKey          string
	ChatModelName      string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingVectorSize int

	DBPath           string
	QdrantURL        string
	QdrantCollection string

	APIPort string

	// Deployment-level request defaults. Per-request values override these.
	DefaultK           int
	DefaultTemperature float32
	DefaultFilters     map[string]any

	// ScanRowLimit caps the candidate set fetched by the in-process
	// fallback similarity scan.
	ScanRowLimit int

	// Ingestion settings.
	DocsDir         string
	IngestWorkers   int
	IngestBatchSize int

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up a few levels to find a project-root .env.
	if wd, err := os.Getwd(); err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMAPIKey:          os.Getenv("LLM_API_KEY"),
		ChatModelName:      getEnv("CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),
		DBPath:             getEnv("DB_PATH", "./data/storefront-ai.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "products"),
		APIPort:            getEnv("API_PORT", "8000"),
		DocsDir:            getEnv("DOCS_DIR", "./docs"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// The embeddings endpoint defaults to the chat endpoint when not set
	// separately (single OpenAI-compatible server serving both).
	if cfg.EmbeddingBaseURL == "" {
		cfg.EmbeddingBaseURL = cfg.LLMBaseURL
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	// EMBEDDING_VECTOR_SIZE must match the output dimension of the embedding
	// model. Documents indexed under a different dimension are skipped at
	// retrieval time, so this is required up front.
	vectorSizeStr := getEnv("EMBEDDING_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingVectorSize = vectorSize

	cfg.DefaultK, err = getEnvInt("DEFAULT_K", 4)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultK < 1 || cfg.DefaultK > 20 {
		return nil, fmt.Errorf("DEFAULT_K must be in [1, 20], got %d", cfg.DefaultK)
	}

	temp, err := getEnvFloat("DEFAULT_TEMPERATURE", 0.7)
	if err != nil {
		return nil, err
	}
	if temp < 0 || temp > 2 {
		return nil, fmt.Errorf("DEFAULT_TEMPERATURE must be in [0.0, 2.0], got %g", temp)
	}
	cfg.DefaultTemperature = float32(temp)

	// DEFAULT_FILTERS is a JSON object of equality predicates applied when a
	// request carries no filter of its own.
	filtersJSON := getEnv("DEFAULT_FILTERS", `{"is_active": true}`)
	if err := json.Unmarshal([]byte(filtersJSON), &cfg.DefaultFilters); err != nil {
		return nil, fmt.Errorf("DEFAULT_FILTERS must be a JSON object: %w", err)
	}

	cfg.ScanRowLimit, err = getEnvInt("SCAN_ROW_LIMIT", 10000)
	if err != nil {
		return nil, err
	}
	if cfg.ScanRowLimit <= 0 {
		return nil, fmt.Errorf("SCAN_ROW_LIMIT must be greater than 0")
	}

	cfg.IngestWorkers, err = getEnvInt("INGEST_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	if cfg.IngestWorkers < 1 {
		return nil, fmt.Errorf("INGEST_WORKERS must be at least 1")
	}

	cfg.IngestBatchSize, err = getEnvInt("INGEST_BATCH_SIZE", 50)
	if err != nil {
		return nil, err
	}
	if cfg.IngestBatchSize < 1 {
		return nil, fmt.Errorf("INGEST_BATCH_SIZE must be at least 1")
	}

	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create the data directory for the SQLite file if needed.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

// getEnvFloat gets a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return parsed, nil
}
