package chat

import (
	"context"
	"strings"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/llm"
)

// ContextMarker is the placeholder in a system prompt where retrieved
// passages are inserted.
const ContextMarker = "{context}"

// defaultSystemPrompt is the out-of-the-box answering prompt.
const defaultSystemPrompt = "You are a helpful assistant for a product catalog chatbot. " +
	"Your role is to help users find and understand products based on the retrieved product information.\n\n" +
	"Use the following pieces of retrieved context to answer the question. " +
	"If you don't know the answer based on the context, say so. Don't make up information.\n\n" +
	ContextMarker + "\n\n" +
	"Provide a helpful, accurate answer based on the context. If the context doesn't contain " +
	"enough information, politely let the user know and suggest they rephrase their question " +
	"or ask about specific product categories."

// fallbackAnswer substitutes for an empty generation result. A blank reply
// is a worse user experience than an apology, so this is deliberate rather
// than an error path.
const fallbackAnswer = "I'm sorry, I couldn't generate a response."

// Synthesizer assembles retrieved documents and history into a generation
// request and produces the final answer text.
type Synthesizer struct {
	gen GenerationClient
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(gen GenerationClient) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// EnsureContextMarker guarantees the prompt contains the context-insertion
// marker, appending one if missing. Prompts that already carry the marker
// pass through unchanged, so the function is idempotent.
func EnsureContextMarker(prompt string) string {
	if strings.Contains(prompt, ContextMarker) {
		return prompt
	}
	return prompt + "\n\n" + ContextMarker
}

// Synthesize generates the final answer from the query, history, and ranked
// documents. An empty promptTemplate selects the default prompt; custom
// prompts get the context marker appended when they lack one.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, history []Turn, docs []RetrievedDocument, promptTemplate string, params llm.ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := promptTemplate
	if prompt == "" {
		prompt = defaultSystemPrompt
	}
	prompt = EnsureContextMarker(prompt)

	systemPrompt := strings.Replace(prompt, ContextMarker, formatContext(docs), 1)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, llm.Message{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: query})

	answer, err := s.gen.ChatWithMessages(ctx, messages, params)
	if err != nil {
		return "", &GenerationError{Stage: "synthesizing", Err: err}
	}

	if answer == "" {
		logger.WarnContext(ctx, "generation returned empty answer, substituting fallback")
		return fallbackAnswer, nil
	}

	logger.DebugContext(ctx, "answer synthesized", "answer_length", len(answer), "documents", len(docs))
	return answer, nil
}

// formatContext concatenates documents into the context block in ranked
// order.
func formatContext(docs []RetrievedDocument) string {
	if len(docs) == 0 {
		return "No relevant documents were found."
	}

	var builder strings.Builder
	for i, doc := range docs {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(doc.Content)
	}
	return builder.String()
}
