package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_store.go -package=mocks storefront-ai/internal/storage SessionStore

import (
	"context"
	"database/sql"
	"fmt"
)

// SessionStore defines the interface for conversation persistence.
// The caller owns serialization: messages are an opaque JSON payload here.
// Get followed by ReplaceMessages is not atomic; callers that need
// same-session serialization must provide it themselves.
type SessionStore interface {
	// GetMessages returns the stored turn sequence for a session, or nil
	// if the session is unknown.
	GetMessages(ctx context.Context, sessionID string) ([]byte, error)
	// ReplaceMessages stores the full turn sequence for a session,
	// creating the session if needed (idempotent upsert).
	ReplaceMessages(ctx context.Context, sessionID string, messages []byte) error
	// Clear empties a session's history. Clearing an unknown session is
	// not an error.
	Clear(ctx context.Context, sessionID string) error
	// Delete removes a session entirely. Deleting an unknown session is
	// not an error.
	Delete(ctx context.Context, sessionID string) error
}

// SessionRepo provides methods for conversation persistence.
// It implements the SessionStore interface.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// GetMessages returns the stored turn sequence for a session.
// An unknown session yields nil, not an error.
func (r *SessionRepo) GetMessages(ctx context.Context, sessionID string) ([]byte, error) {
	var messages []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT messages FROM conversations WHERE session_id = ?",
		sessionID,
	).Scan(&messages)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	return messages, nil
}

// ReplaceMessages stores the full turn sequence for a session, creating the
// session row lazily on first write.
func (r *SessionRepo) ReplaceMessages(ctx context.Context, sessionID string, messages []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (session_id, messages) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET messages = excluded.messages, updated_at = CURRENT_TIMESTAMP`,
		sessionID, string(messages),
	)
	if err != nil {
		return fmt.Errorf("failed to replace conversation: %w", err)
	}
	return nil
}

// Clear empties a session's history. The session row is kept (cleared, not
// deleted); clearing a session that never existed succeeds as a no-op.
func (r *SessionRepo) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE conversations SET messages = '[]', updated_at = CURRENT_TIMESTAMP WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear conversation: %w", err)
	}
	return nil
}

// Delete removes a session entirely.
func (r *SessionRepo) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM conversations WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
