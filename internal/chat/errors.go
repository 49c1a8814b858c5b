package chat

import "fmt"

// ConfigurationError reports a missing or out-of-range request parameter.
// The service layer maps it to a client error; parameters are rejected, not
// silently clamped.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on %s: %s", e.Field, e.Message)
}

// GenerationError reports a failure of the generation capability that
// prevented producing any answer. It surfaces to the caller as a server
// error.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed while %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// SessionError reports a conversation store failure. It always surfaces:
// silent history loss is not acceptable.
type SessionError struct {
	SessionID string
	Err       error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session %s: %v", e.SessionID, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}
