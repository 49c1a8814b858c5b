package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/storage"
)

// ScanIndex implements Index with an exact in-process similarity scan over
// the document row store. It exists as the fallback when the managed index
// is unavailable: slower, but correct and dependency-free.
type ScanIndex struct {
	docs        storage.DocumentStore
	maxRows     int
	dimWarnOnce sync.Once
}

// NewScanIndex creates a fallback scan index over a document store.
// maxRows caps the candidate set fetched per search so the scan stays
// bounded on large corpora.
func NewScanIndex(docs storage.DocumentStore, maxRows int) *ScanIndex {
	return &ScanIndex{
		docs:    docs,
		maxRows: maxRows,
	}
}

// Search fetches every row matching the equality filter, scores the ones
// with a decodable, dimension-matching embedding by cosine similarity, and
// returns the top k. The sort is stable: equal scores keep fetch order.
func (s *ScanIndex) Search(ctx context.Context, vector []float32, k int, filter map[string]any) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	rows, err := s.docs.FetchFiltered(ctx, filter, s.maxRows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate rows: %w", err)
	}

	scored := make([]SearchResult, 0, len(rows))
	var skippedParse, skippedDim int

	for _, row := range rows {
		embedding, err := DecodeEmbedding(row.Embedding)
		if err != nil {
			skippedParse++
			logger.DebugContext(ctx, "skipping row with undecodable embedding", "id", row.ID, "error", err)
			continue
		}

		if len(embedding) != len(vector) {
			skippedDim++
			s.dimWarnOnce.Do(func() {
				logger.WarnContext(ctx, "embedding dimension mismatch, affected rows will be skipped",
					"row_dimension", len(embedding),
					"query_dimension", len(vector),
				)
			})
			continue
		}

		scored = append(scored, SearchResult{
			ID:      row.ID,
			Score:   CosineSimilarity(vector, embedding),
			Content: row.Content,
			Meta: map[string]any{
				"id":            row.ID,
				"source":        row.Source,
				"category":      row.Category,
				"document_type": row.DocumentType,
				"chunk_index":   row.ChunkIndex,
				"is_active":     row.IsActive,
			},
		})
	}

	// Stable sort: ties keep the row store's fetch order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}

	logger.DebugContext(ctx, "fallback scan completed",
		"candidates", len(rows),
		"skipped_parse", skippedParse,
		"skipped_dimension", skippedDim,
		"results", len(scored),
	)

	return scored, nil
}

// CosineSimilarity computes dot(a, b) / (||a|| * ||b||).
// Returns 0.0 when either vector has zero norm. Symmetric in its arguments.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// DecodeEmbedding decodes a stored embedding string into a vector.
// Rows may carry a JSON array (the current format) or a bracketed numeric
// literal such as "(0.1, 0.2)" left behind by older ingestion tooling.
// JSON is tried first, then the literal form.
func DecodeEmbedding(raw string) ([]float32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty embedding")
	}

	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err == nil {
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty embedding array")
		}
		return vec, nil
	}

	return decodeLiteralEmbedding(raw)
}

// decodeLiteralEmbedding handles bracketed numeric literals: "[1, 2]",
// "(1, 2)", with arbitrary whitespace between elements.
func decodeLiteralEmbedding(raw string) ([]float32, error) {
	open := strings.IndexAny(raw, "[(")
	close := strings.LastIndexAny(raw, "])")
	if open == -1 || close == -1 || close <= open {
		return nil, fmt.Errorf("unrecognized embedding encoding")
	}

	inner := strings.TrimSpace(raw[open+1 : close])
	if inner == "" {
		return nil, fmt.Errorf("empty embedding literal")
	}

	parts := strings.Split(inner, ",")
	vec := make([]float32, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid embedding element %q: %w", part, err)
		}
		vec = append(vec, float32(value))
	}

	if len(vec) == 0 {
		return nil, fmt.Errorf("empty embedding literal")
	}
	return vec, nil
}
