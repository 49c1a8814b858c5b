package handlers

import (
	"encoding/json"
	"net/http"

	"storefront-ai/internal/contextutil"
	"storefront-ai/internal/storage"
)

// ResetHandler handles HTTP requests to clear a session's history.
type ResetHandler struct {
	sessions storage.SessionStore
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(sessions storage.SessionStore) *ResetHandler {
	return &ResetHandler{sessions: sessions}
}

// ResetRequest represents the HTTP request payload for reset.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// ResetResponse represents the HTTP response payload for reset.
type ResetResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ServeHTTP handles POST /api/reset. Clearing an unknown session succeeds:
// the outcome the caller asked for (no history) already holds.
func (h *ResetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := h.sessions.Clear(ctx, req.SessionID); err != nil {
		logger.ErrorContext(ctx, "failed to clear conversation history", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear conversation history")
		return
	}

	logger.InfoContext(ctx, "conversation history cleared", "session_id", req.SessionID)

	writeJSON(w, http.StatusOK, ResetResponse{
		Success:   true,
		Message:   "Conversation history cleared",
		SessionID: req.SessionID,
	})
}
