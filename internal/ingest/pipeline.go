package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront-ai/internal/storage"
	"storefront-ai/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks storefront-ai/internal/ingest Embedder

// Embedder generates embedding vectors for batches of text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

const (
	defaultWorkers   = 4
	defaultBatchSize = 50
)

// Pipeline ingests a corpus directory into the row store and the managed
// index. File reading and chunking run on a bounded worker pool; embedding
// and upload run sequentially in batches so a slow or failing batch never
// interleaves with another.
type Pipeline struct {
	docs      storage.DocumentStore
	embedder  Embedder
	index     vectorstore.Upserter
	chunker   *Chunker
	workers   int
	batchSize int
	logger    *slog.Logger
}

// NewPipeline creates a new ingestion pipeline. Non-positive workers or
// batchSize fall back to defaults.
func NewPipeline(docs storage.DocumentStore, embedder Embedder, index vectorstore.Upserter, workers, batchSize int) *Pipeline {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Pipeline{
		docs:      docs,
		embedder:  embedder,
		index:     index,
		chunker:   NewChunker(),
		workers:   workers,
		batchSize: batchSize,
		logger:    slog.Default(),
	}
}

// pendingDoc is an extracted chunk awaiting embedding and upload.
type pendingDoc struct {
	row  storage.DocumentRow
	meta map[string]any
}

// fileResult carries one file's extraction outcome from a worker.
type fileResult struct {
	file SourceFile
	docs []pendingDoc
	err  error
}

// Run ingests every markdown and text file under root. Per-file and
// per-batch failures are recorded in the returned stats and do not stop the
// run; context cancellation stops it, and the stats still report the work
// completed up to that point.
func (p *Pipeline) Run(ctx context.Context, root string) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{}

	files, err := Scan(ctx, root)
	if err != nil {
		return stats, err
	}
	stats.FilesScanned = len(files)
	p.logger.InfoContext(ctx, "starting ingestion", "root", root, "files", len(files), "workers", p.workers)

	results := p.extract(ctx, files)

	var pending []pendingDoc
	for res := range results {
		if res.err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, FileError{Path: res.file.RelPath, Error: res.err.Error()})
			p.logger.ErrorContext(ctx, "failed to extract file", "path", res.file.RelPath, "error", res.err)
			continue
		}

		if err := p.replaceStale(ctx, res.file.RelPath); err != nil {
			stats.FilesFailed++
			stats.Errors = append(stats.Errors, FileError{Path: res.file.RelPath, Error: err.Error()})
			p.logger.ErrorContext(ctx, "failed to remove stale documents", "path", res.file.RelPath, "error", err)
			continue
		}

		stats.FilesProcessed++
		stats.ChunksExtracted += len(res.docs)
		pending = append(pending, res.docs...)
	}

	if err := ctx.Err(); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}

	for offset := 0; offset < len(pending); offset += p.batchSize {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}

		end := offset + p.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[offset:end]

		if err := p.uploadBatch(ctx, batch); err != nil {
			stats.BatchesFailed++
			p.logger.ErrorContext(ctx, "failed to upload batch", "offset", offset, "size", len(batch), "error", err)
			continue
		}
		stats.BatchesUploaded++
		stats.ChunksIndexed += len(batch)
	}

	stats.Duration = time.Since(start)
	p.logger.InfoContext(ctx, "ingestion completed",
		"files_processed", stats.FilesProcessed,
		"files_failed", stats.FilesFailed,
		"chunks_indexed", stats.ChunksIndexed,
		"batches_failed", stats.BatchesFailed,
	)
	return stats, nil
}

// extract runs the worker pool and streams per-file results. The returned
// channel closes once all workers finish.
func (p *Pipeline) extract(ctx context.Context, files []SourceFile) <-chan fileResult {
	jobs := make(chan SourceFile)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				docs, err := p.extractFile(file)
				select {
				case results <- fileResult{file: file, docs: docs, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, file := range files {
			select {
			case jobs <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// extractFile reads and chunks one file into pending documents.
func (p *Pipeline) extractFile(file SourceFile) ([]pendingDoc, error) {
	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	title, chunks := p.chunker.ChunkFile(content, filepath.Base(file.RelPath))
	if len(chunks) == 0 {
		return nil, nil
	}

	docType := "text"
	if strings.ToLower(filepath.Ext(file.RelPath)) == ".md" {
		docType = "markdown"
	}

	docs := make([]pendingDoc, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		docs[i] = pendingDoc{
			row: storage.DocumentRow{
				ID:           id,
				Source:       file.RelPath,
				Category:     file.Folder,
				DocumentType: docType,
				ChunkIndex:   chunk.Index,
				Content:      chunk.Text,
				IsActive:     true,
			},
			meta: map[string]any{
				"id":            id,
				"content":       chunk.Text,
				"source":        file.RelPath,
				"title":         title,
				"category":      file.Folder,
				"document_type": docType,
				"section":       chunk.Section,
				"chunk_index":   chunk.Index,
				"is_active":     true,
			},
		}
	}
	return docs, nil
}

// replaceStale removes a source's previous documents from both stores so
// re-ingesting a file replaces it rather than duplicating it. A managed
// index delete failure is logged and tolerated since the new upsert
// overwrites live points anyway.
func (p *Pipeline) replaceStale(ctx context.Context, source string) error {
	existing, err := p.docs.FetchFiltered(ctx, map[string]any{"source": source}, 0)
	if err != nil {
		return fmt.Errorf("failed to fetch existing documents: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	ids := make([]string, len(existing))
	for i, row := range existing {
		ids[i] = row.ID
	}

	if err := p.index.Delete(ctx, ids); err != nil {
		p.logger.WarnContext(ctx, "failed to delete stale points from managed index", "source", source, "count", len(ids), "error", err)
	}

	if err := p.docs.DeleteBySource(ctx, source); err != nil {
		return fmt.Errorf("failed to delete existing documents: %w", err)
	}
	return nil
}

// uploadBatch embeds one batch and writes it to the row store and the
// managed index.
func (p *Pipeline) uploadBatch(ctx context.Context, batch []pendingDoc) error {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.row.Content
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(vectors))
	}

	rows := make([]storage.DocumentRow, len(batch))
	points := make([]vectorstore.Point, len(batch))
	for i, doc := range batch {
		encoded, err := json.Marshal(vectors[i])
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}
		row := doc.row
		row.Embedding = string(encoded)
		rows[i] = row
		points[i] = vectorstore.Point{ID: doc.row.ID, Vector: vectors[i], Meta: doc.meta}
	}

	if err := p.docs.InsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}
	if err := p.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}
