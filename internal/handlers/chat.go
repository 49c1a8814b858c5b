package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/storage"
)

// Conversation is the handler's view of the conversation engine
// (consumer-first interface).
type Conversation interface {
	// Converse processes a query and returns the answer, citations, and
	// updated history.
	Converse(ctx context.Context, query string, history []chat.Turn, opts chat.Options) (chat.Result, error)
}

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	conversation Conversation
	sessions     storage.SessionStore
	locks        *chat.SessionLocks
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(conversation Conversation, sessions storage.SessionStore, locks *chat.SessionLocks) *ChatHandler {
	return &ChatHandler{
		conversation: conversation,
		sessions:     sessions,
		locks:        locks,
	}
}

// ChatRequest represents the HTTP request payload for chat.
//
// swagger:model ChatRequest
type ChatRequest struct {
	Message        string         `json:"message"`
	SessionID      string         `json:"session_id,omitempty"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ChatModel      string         `json:"chat_model,omitempty"`
	EmbeddingModel string         `json:"embedding_model,omitempty"`
	K              int            `json:"k,omitempty"`
	Filters        map[string]any `json:"filters,omitempty"`
	SystemPrompt   string         `json:"system_prompt,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
//
// swagger:model ChatResponse
type ChatResponse struct {
	Answer    string        `json:"answer"`
	Sources   []chat.Source `json:"sources"`
	SessionID string        `json:"session_id"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles POST /api/chat: load the session history, run the
// conversation engine, persist the replaced history, and reply with the
// answer, citations, and session id. Requests without a session id start a
// new session. Requests for the same session are serialized so concurrent
// exchanges cannot overwrite each other's history.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	unlock := h.locks.Lock(sessionID)
	defer unlock()

	raw, err := h.sessions.GetMessages(ctx, sessionID)
	if err != nil {
		sessionErr := &chat.SessionError{SessionID: sessionID, Err: err}
		logger.ErrorContext(ctx, "failed to load conversation history", "error", sessionErr)
		writeError(w, http.StatusInternalServerError, "Failed to load conversation history")
		return
	}

	history, err := chat.UnmarshalTurns(raw)
	if err != nil {
		logger.ErrorContext(ctx, "stored history is corrupt", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load conversation history")
		return
	}

	opts := chat.Options{
		Temperature:    req.Temperature,
		ChatModel:      req.ChatModel,
		EmbeddingModel: req.EmbeddingModel,
		K:              req.K,
		Filters:        req.Filters,
		SystemPrompt:   req.SystemPrompt,
	}

	result, err := h.conversation.Converse(ctx, req.Message, history, opts)
	if err != nil {
		h.writeConverseError(w, ctx, err)
		return
	}

	updated, err := chat.MarshalTurns(result.History)
	if err != nil {
		logger.ErrorContext(ctx, "failed to serialize history", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save conversation history")
		return
	}

	if err := h.sessions.ReplaceMessages(ctx, sessionID, updated); err != nil {
		sessionErr := &chat.SessionError{SessionID: sessionID, Err: err}
		logger.ErrorContext(ctx, "failed to save conversation history", "error", sessionErr)
		writeError(w, http.StatusInternalServerError, "Failed to save conversation history")
		return
	}

	logger.InfoContext(ctx, "chat request processed",
		"session_id", sessionID,
		"history_turns", len(result.History),
		"sources", len(result.Sources),
	)

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:    result.Answer,
		Sources:   result.Sources,
		SessionID: sessionID,
	})
}

// writeConverseError maps engine errors to client-visible responses without
// leaking internal detail.
func (h *ChatHandler) writeConverseError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var configErr *chat.ConfigurationError
	if errors.As(err, &configErr) {
		logger.WarnContext(ctx, "invalid request configuration", "error", configErr)
		writeError(w, http.StatusBadRequest, configErr.Error())
		return
	}

	var genErr *chat.GenerationError
	if errors.As(err, &genErr) {
		logger.ErrorContext(ctx, "generation capability failed", "error", genErr)
		writeError(w, http.StatusBadGateway, "Failed to generate a response")
		return
	}

	logger.ErrorContext(ctx, "chat request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
