package ingest

// Chunk is a unit of document text small enough to embed on its own.
type Chunk struct {
	Index   int    // chunk index within the document, starts at 0
	Section string // heading path, e.g. "# Returns > ## Refund Timelines"
	Text    string
}

// SourceFile is a corpus document found during a directory scan.
type SourceFile struct {
	AbsPath string
	RelPath string // relative to the corpus root, forward slashes
	Folder  string // first path component, used as the document category
}
