package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks storefront-ai/internal/vectorstore Index

import (
	"context"
	"fmt"
)

// Point represents a vector point with metadata for indexing.
type Point struct {
	ID     string
	Vector []float32
	Meta   map[string]any
}

// SearchResult represents a single ranked hit from a similarity search.
type SearchResult struct {
	ID      string
	Score   float32
	Content string
	Meta    map[string]any
}

// Index is the similarity-search abstraction. Implementations return at
// most k results sorted by score descending; the score scale is
// backend-defined but higher always means more relevant.
type Index interface {
	// Search performs a similarity search with an equality-predicate filter.
	Search(ctx context.Context, vector []float32, k int, filter map[string]any) ([]SearchResult, error)
}

// Upserter is implemented by backends that accept writes (the managed
// index). The fallback scan reads the row store directly and needs none.
type Upserter interface {
	// Upsert inserts or updates points in the index.
	Upsert(ctx context.Context, points []Point) error
	// Delete removes points by their IDs.
	Delete(ctx context.Context, ids []string) error
}

// BackendError marks a failure of a specific index backend. The failover
// policy recovers from managed-backend errors locally; this type exists so
// that recovery is a typed decision rather than a blanket suppression.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s index backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
