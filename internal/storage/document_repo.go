package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks storefront-ai/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// filterColumns whitelists the metadata fields usable as equality
// predicates, mapped to their column names.
var filterColumns = map[string]string{
	"id":            "id",
	"source":        "source",
	"category":      "category",
	"document_type": "document_type",
	"chunk_index":   "chunk_index",
	"is_active":     "is_active",
}

// DocumentStore defines the interface for document row operations.
type DocumentStore interface {
	// FetchFiltered returns up to limit rows matching every equality
	// predicate in filter, in insertion order. An empty filter matches all
	// rows. Unknown filter keys are rejected.
	FetchFiltered(ctx context.Context, filter map[string]any, limit int) ([]DocumentRow, error)
	// InsertBatch inserts a batch of document rows in a single transaction.
	InsertBatch(ctx context.Context, rows []DocumentRow) error
	// DeleteBySource deletes all rows belonging to a source document.
	DeleteBySource(ctx context.Context, source string) error
}

// DocumentRepo provides methods for document row operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// FetchFiltered returns up to limit rows matching the equality filter.
// Rows come back ordered by insertion (rowid), which the fallback scan
// relies on for its tie-break policy.
func (r *DocumentRepo) FetchFiltered(ctx context.Context, filter map[string]any, limit int) ([]DocumentRow, error) {
	query := "SELECT id, source, category, document_type, chunk_index, content, embedding, is_active FROM documents"
	var args []any

	if len(filter) > 0 {
		// Sort keys so the generated SQL is deterministic.
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		conditions := make([]string, 0, len(keys))
		for _, key := range keys {
			column, ok := filterColumns[key]
			if !ok {
				return nil, fmt.Errorf("unsupported filter field %q", key)
			}
			conditions = append(conditions, column+" = ?")
			args = append(args, normalizeFilterValue(filter[key]))
		}
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY rowid"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []DocumentRow
	for rows.Next() {
		var row DocumentRow
		if err := rows.Scan(&row.ID, &row.Source, &row.Category, &row.DocumentType,
			&row.ChunkIndex, &row.Content, &row.Embedding, &row.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

// InsertBatch inserts a batch of document rows in one transaction.
// A failure rolls back the whole batch so a retry never half-applies it.
func (r *DocumentRepo) InsertBatch(ctx context.Context, batch []DocumentRow) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO documents (id, source, category, document_type, chunk_index, content, embedding, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, row := range batch {
		if _, err := stmt.ExecContext(ctx, row.ID, row.Source, row.Category, row.DocumentType,
			row.ChunkIndex, row.Content, row.Embedding, row.IsActive); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// DeleteBySource deletes all rows belonging to a source document.
// Used when re-ingesting a source to remove stale chunks first.
func (r *DocumentRepo) DeleteBySource(ctx context.Context, source string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("failed to delete documents by source: %w", err)
	}
	return nil
}

// normalizeFilterValue converts filter values to types the sqlite driver
// binds predictably (bools arrive as JSON values from the request layer).
func normalizeFilterValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case float64:
		// JSON numbers decode as float64; integer-valued ones compare
		// against INTEGER columns only after conversion.
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return v
	}
}
