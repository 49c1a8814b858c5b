package chat

import (
	"context"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/llm"
)

// reformulatePrompt binds the generation capability to the reformulation
// contract: produce a standalone question or return the input as is, and
// never answer it.
const reformulatePrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, formulate a standalone question " +
	"which can be understood without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

// Reformulator rewrites a follow-up query into a standalone one using the
// conversation history.
type Reformulator struct {
	gen GenerationClient
}

// NewReformulator creates a new Reformulator.
func NewReformulator(gen GenerationClient) *Reformulator {
	return &Reformulator{gen: gen}
}

// Standalone returns a version of query that needs no history to be
// understood. With no prior turns there is nothing to disambiguate against,
// so the query passes through without a generation call.
func (r *Reformulator) Standalone(ctx context.Context, history []Turn, query string, params llm.ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(history) == 0 {
		return query, nil
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: reformulatePrompt})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: query})

	standalone, err := r.gen.ChatWithMessages(ctx, messages, params)
	if err != nil {
		return "", &GenerationError{Stage: "reformulating", Err: err}
	}

	if standalone == "" {
		// An empty rewrite would retrieve nothing; the original query is
		// the better search input.
		logger.WarnContext(ctx, "empty reformulation, using original query")
		return query, nil
	}

	logger.DebugContext(ctx, "query reformulated", "original", query, "standalone", standalone)
	return standalone, nil
}
