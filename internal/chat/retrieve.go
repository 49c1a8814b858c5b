package chat

import (
	"context"
	"fmt"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/llm"
	"storefront-ai/internal/vectorstore"
)

// unknownDocumentTitle is the citation title for hits whose metadata
// carries no source name.
const unknownDocumentTitle = "Unknown Document"

// Retriever turns a conversational query into a ranked document list:
// reformulate against history, embed, search the index, extract citation
// metadata.
type Retriever struct {
	reformulator *Reformulator
	embedder     EmbeddingClient
	index        vectorstore.Index
	defaults     Defaults
}

// NewRetriever creates a new Retriever.
func NewRetriever(reformulator *Reformulator, embedder EmbeddingClient, index vectorstore.Index, defaults Defaults) *Retriever {
	return &Retriever{
		reformulator: reformulator,
		embedder:     embedder,
		index:        index,
		defaults:     defaults,
	}
}

// Retrieve returns ranked documents for the query plus the filter that was
// actually applied. A request filter replaces the deployment default
// entirely; the two are never merged field by field.
func (r *Retriever) Retrieve(ctx context.Context, query string, history []Turn, opts Options) ([]RetrievedDocument, map[string]any, error) {
	logger := contextutil.LoggerFromContext(ctx)

	k := opts.K
	if k == 0 {
		k = r.defaults.K
	}

	filter := r.defaults.Filters
	if opts.Filters != nil {
		filter = opts.Filters
	}

	genParams := llm.ChatParams{Model: opts.ChatModel}
	if opts.Temperature != nil {
		genParams.Temperature = *opts.Temperature
	} else {
		genParams.Temperature = r.defaults.Temperature
	}

	standalone, err := r.reformulator.Standalone(ctx, history, query, genParams)
	if err != nil {
		return nil, nil, err
	}

	embeddingModel := opts.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = r.defaults.EmbeddingModel
	}

	vectors, err := r.embedder.EmbedTextsWithModel(ctx, []string{standalone}, embeddingModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil, fmt.Errorf("no embedding returned for query")
	}

	results, err := r.index.Search(ctx, vectors[0], k, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search index: %w", err)
	}

	docs := make([]RetrievedDocument, 0, len(results))
	for _, result := range results {
		docs = append(docs, documentFromResult(result))
	}

	logger.InfoContext(ctx, "retrieval completed",
		"standalone_query", standalone,
		"k", k,
		"results", len(docs),
	)

	return docs, filter, nil
}

// documentFromResult maps a raw index hit to a RetrievedDocument with
// citation metadata extracted.
func documentFromResult(result vectorstore.SearchResult) RetrievedDocument {
	title := unknownDocumentTitle
	if source, ok := result.Meta["source"].(string); ok && source != "" {
		title = source
	}

	category, _ := result.Meta["category"].(string)

	// Prefer an explicit id field; otherwise synthesize one from the
	// source name and chunk index. Either way the citation id is a string.
	id := ""
	if raw, ok := result.Meta["id"]; ok && raw != nil && raw != "" {
		id = fmt.Sprintf("%v", raw)
	} else {
		chunkIndex := int64(0)
		switch v := result.Meta["chunk_index"].(type) {
		case int:
			chunkIndex = int64(v)
		case int64:
			chunkIndex = v
		case float64:
			chunkIndex = int64(v)
		}
		id = fmt.Sprintf("%s-chunk-%d", title, chunkIndex)
	}

	return RetrievedDocument{
		Content:  result.Content,
		Score:    result.Score,
		Title:    title,
		Category: category,
		ID:       id,
		Meta:     result.Meta,
	}
}
