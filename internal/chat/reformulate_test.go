package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/chat/mocks"
	"storefront-ai/internal/llm"
)

func init() {
	// Discard log output for cleaner test runs
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStandaloneEmptyHistorySkipsGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	// No ChatWithMessages call expected: the first turn needs no rewriting.

	r := chat.NewReformulator(mockGen)
	got, err := r.Standalone(context.Background(), nil, "what espresso machines do you sell?", llm.ChatParams{})
	if err != nil {
		t.Fatalf("Standalone() error = %v", err)
	}
	if got != "what espresso machines do you sell?" {
		t.Errorf("expected pass-through query, got %q", got)
	}
}

func TestStandaloneRewritesWithHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	history := []chat.Turn{
		{Role: chat.RoleUser, Content: "do you sell espresso machines?"},
		{Role: chat.RoleAssistant, Content: "Yes, three models."},
	}

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			// system + 2 history turns + current query
			if len(messages) != 4 {
				t.Fatalf("expected 4 messages, got %d", len(messages))
			}
			if messages[0].Role != "system" {
				t.Fatalf("expected system message first, got %q", messages[0].Role)
			}
			if messages[3].Content != "how much is the cheapest one?" {
				t.Fatalf("expected query last, got %q", messages[3].Content)
			}
			return "How much is the cheapest espresso machine?", nil
		})

	r := chat.NewReformulator(mockGen)
	got, err := r.Standalone(context.Background(), history, "how much is the cheapest one?", llm.ChatParams{})
	if err != nil {
		t.Fatalf("Standalone() error = %v", err)
	}
	if got != "How much is the cheapest espresso machine?" {
		t.Errorf("unexpected rewrite: %q", got)
	}
}

func TestStandaloneGenerationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("connection refused"))

	history := []chat.Turn{{Role: chat.RoleUser, Content: "hi"}}

	r := chat.NewReformulator(mockGen)
	_, err := r.Standalone(context.Background(), history, "and then?", llm.ChatParams{})

	var genErr *chat.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Stage != "reformulating" {
		t.Errorf("expected stage reformulating, got %q", genErr.Stage)
	}
}

func TestStandaloneEmptyRewriteFallsBackToQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", nil)

	history := []chat.Turn{{Role: chat.RoleUser, Content: "hi"}}

	r := chat.NewReformulator(mockGen)
	got, err := r.Standalone(context.Background(), history, "what about warranties?", llm.ChatParams{})
	if err != nil {
		t.Fatalf("Standalone() error = %v", err)
	}
	if got != "what about warranties?" {
		t.Errorf("expected original query on empty rewrite, got %q", got)
	}
}
