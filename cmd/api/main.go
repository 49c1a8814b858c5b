package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/config"
	"storefront-ai/internal/http"
	"storefront-ai/internal/llm"
	"storefront-ai/internal/storage"
	"storefront-ai/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	documentRepo := storage.NewDocumentRepo(db)
	sessionRepo := storage.NewSessionRepo(db)

	ctx := context.Background()

	managed, err := vectorstore.NewManagedIndex(cfg.QdrantURL, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := managed.EnsureCollection(ctx, cfg.EmbeddingVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.EmbeddingVectorSize)

	scan := vectorstore.NewScanIndex(documentRepo, cfg.ScanRowLimit)
	index := vectorstore.NewFailoverIndex(managed, scan)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.ChatModelName)

	defaults := chat.Defaults{
		ChatModel:      cfg.ChatModelName,
		EmbeddingModel: cfg.EmbeddingModelName,
		Temperature:    cfg.DefaultTemperature,
		K:              cfg.DefaultK,
		Filters:        cfg.DefaultFilters,
	}

	reformulator := chat.NewReformulator(llmClient)
	retriever := chat.NewRetriever(reformulator, embedder, index, defaults)
	synthesizer := chat.NewSynthesizer(llmClient)
	orchestrator := chat.NewOrchestrator(retriever, synthesizer, defaults)
	slog.Info("Conversation engine initialized")

	deps := &http.Deps{
		Conversation: orchestrator,
		Sessions:     sessionRepo,
		Locks:        chat.NewSessionLocks(),
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.ChatModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
