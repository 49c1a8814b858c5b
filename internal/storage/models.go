package storage

import "time"

// DocumentRow represents an indexed corpus chunk in the documents table.
// The embedding column holds the raw stored form of the vector; retrieval
// decodes it lazily because historical rows may carry different encodings.
type DocumentRow struct {
	ID           string // UUID (same as the managed index point ID)
	Source       string // Display name of the originating document
	Category     string
	DocumentType string
	ChunkIndex   int    // Index within the source document (starts at 0)
	Content      string // Chunk text content
	Embedding    string // Stored embedding, typically a JSON array string
	IsActive     bool
	CreatedAt    time.Time
}
