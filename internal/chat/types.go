package chat

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_clients.go -package=mocks storefront-ai/internal/chat GenerationClient,EmbeddingClient

import (
	"context"

	"storefront-ai/internal/llm"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn authored by the end user.
	RoleUser Role = "user"
	// RoleAssistant marks a turn authored by the assistant.
	RoleAssistant Role = "assistant"
)

// Turn is a single immutable message in a conversation. Position within a
// sequence is implicit; sequences are append-only and never reordered.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RetrievedDocument is one ranked passage produced per request. It is
// ephemeral: assembled for a single generation call and never persisted.
type RetrievedDocument struct {
	Content  string
	Score    float32
	Title    string
	Category string
	ID       string
	Meta     map[string]any
}

// Source is a citation entry returned with an answer. Duplicates across
// chunks of the same source document are allowed.
type Source struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	ID       string `json:"id"`
}

// Options carries per-request overrides. Zero values mean "use the
// deployment default"; a non-nil Filters map replaces the default filter
// wholesale rather than merging field by field.
type Options struct {
	Temperature    *float32
	ChatModel      string
	EmbeddingModel string
	K              int
	Filters        map[string]any
	SystemPrompt   string
}

// Defaults holds the deployment-level request defaults.
type Defaults struct {
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	K              int
	Filters        map[string]any
}

// Result is the outcome of a successful conversation exchange: the answer,
// its citations, and the full updated history (prior turns plus exactly two
// new ones). The caller is responsible for persisting the history.
type Result struct {
	Answer  string
	Sources []Source
	History []Turn
}

// GenerationClient is the chat engine's view of the text generation
// capability (consumer-first interface).
type GenerationClient interface {
	// ChatWithMessages sends a message list and returns the generated text.
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// EmbeddingClient is the chat engine's view of the embedding capability.
type EmbeddingClient interface {
	// EmbedTextsWithModel embeds texts, using the default model when model
	// is empty. The vector dimension is constant for a deployment.
	EmbedTextsWithModel(ctx context.Context, texts []string, model string) ([][]float32, error)
}
