package chat

import (
	"encoding/json"
	"fmt"
)

// MarshalTurns serializes a turn sequence to JSON, preserving order.
// An empty or nil sequence serializes to an empty JSON array so stored
// histories are always valid JSON.
func MarshalTurns(turns []Turn) ([]byte, error) {
	if turns == nil {
		turns = []Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal turns: %w", err)
	}
	return data, nil
}

// UnmarshalTurns deserializes a stored turn sequence. The mapping is total
// over valid histories and rejects anything else: a turn with an unknown
// role means the stored data was written by something other than this
// mapping, and silently coercing it would corrupt the conversation.
// Nil or empty input yields an empty history.
func UnmarshalTurns(data []byte) ([]Turn, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal turns: %w", err)
	}

	for i, turn := range turns {
		switch turn.Role {
		case RoleUser, RoleAssistant:
		default:
			return nil, fmt.Errorf("turn %d has unknown role %q", i, turn.Role)
		}
	}

	return turns, nil
}

// AppendExchange returns a new history with the user query and assistant
// answer appended, leaving the input untouched. Success appends exactly
// these two turns and nothing else.
func AppendExchange(history []Turn, query, answer string) []Turn {
	updated := make([]Turn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		Turn{Role: RoleUser, Content: query},
		Turn{Role: RoleAssistant, Content: answer},
	)
	return updated
}
