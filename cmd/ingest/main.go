package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront-ai/internal/config"
	"storefront-ai/internal/ingest"
	"storefront-ai/internal/llm"
	"storefront-ai/internal/storage"
	"storefront-ai/internal/vectorstore"
)

func main() {
	var docsDir string
	flag.StringVar(&docsDir, "docs", "", "corpus directory to ingest (defaults to DOCS_DIR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if docsDir == "" {
		docsDir = cfg.DocsDir
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	documentRepo := storage.NewDocumentRepo(db)

	managed, err := vectorstore.NewManagedIndex(cfg.QdrantURL, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	if err := managed.EnsureCollection(ctx, cfg.EmbeddingVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)

	pipeline := ingest.NewPipeline(documentRepo, embedder, managed, cfg.IngestWorkers, cfg.IngestBatchSize)

	stats, err := pipeline.Run(ctx, docsDir)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Ingestion failed", "error", err)
	}
	if errors.Is(err, context.Canceled) {
		slog.Warn("Ingestion interrupted, reporting completed work")
	}

	out, marshalErr := json.MarshalIndent(stats, "", "  ")
	if marshalErr != nil {
		log.Fatalf("Failed to render stats: %v", marshalErr)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))

	if err != nil || stats.FilesFailed > 0 || stats.BatchesFailed > 0 {
		os.Exit(1)
	}
}
