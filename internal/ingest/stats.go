package ingest

import "time"

// FileError records a per-file ingestion failure.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// RunStats summarizes an ingestion run. Counts reflect completed work even
// when the run is interrupted.
type RunStats struct {
	FilesScanned    int           `json:"files_scanned"`
	FilesProcessed  int           `json:"files_processed"`
	FilesFailed     int           `json:"files_failed"`
	ChunksExtracted int           `json:"chunks_extracted"`
	ChunksIndexed   int           `json:"chunks_indexed"`
	BatchesUploaded int           `json:"batches_uploaded"`
	BatchesFailed   int           `json:"batches_failed"`
	Errors          []FileError   `json:"errors,omitempty"`
	Duration        time.Duration `json:"duration_ns"`
}
