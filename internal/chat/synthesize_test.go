package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/chat/mocks"
	"storefront-ai/internal/llm"
)

func TestEnsureContextMarker(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "marker appended when missing",
			prompt: "Answer using the catalog.",
			want:   "Answer using the catalog.\n\n" + chat.ContextMarker,
		},
		{
			name:   "prompt with marker unchanged",
			prompt: "Context:\n" + chat.ContextMarker + "\nAnswer briefly.",
			want:   "Context:\n" + chat.ContextMarker + "\nAnswer briefly.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chat.EnsureContextMarker(tt.prompt)
			if got != tt.want {
				t.Errorf("EnsureContextMarker() = %q, want %q", got, tt.want)
			}
			// Idempotence: a second application is a no-op.
			if again := chat.EnsureContextMarker(got); again != got {
				t.Errorf("second application changed prompt: %q", again)
			}
		})
	}
}

func TestSynthesizeInsertsContextInRankOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := []chat.RetrievedDocument{
		{Content: "first passage", Score: 0.9},
		{Content: "second passage", Score: 0.5},
	}

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			system := messages[0].Content
			if strings.Contains(system, chat.ContextMarker) {
				t.Fatal("context marker not replaced")
			}
			first := strings.Index(system, "first passage")
			second := strings.Index(system, "second passage")
			if first == -1 || second == -1 {
				t.Fatalf("retrieved passages missing from system prompt: %q", system)
			}
			if first > second {
				t.Error("passages not in rank order")
			}
			return "answer", nil
		})

	s := chat.NewSynthesizer(mockGen)
	answer, err := s.Synthesize(context.Background(), "question", nil, docs, "", llm.ChatParams{})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if answer != "answer" {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestSynthesizeCustomPromptWithoutMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			system := messages[0].Content
			if !strings.HasPrefix(system, "Be terse.") {
				t.Errorf("custom prompt lost: %q", system)
			}
			if !strings.Contains(system, "the only passage") {
				t.Errorf("context not appended to custom prompt: %q", system)
			}
			return "ok", nil
		})

	docs := []chat.RetrievedDocument{{Content: "the only passage"}}
	s := chat.NewSynthesizer(mockGen)
	if _, err := s.Synthesize(context.Background(), "q", nil, docs, "Be terse.", llm.ChatParams{}); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
}

func TestSynthesizeNoDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, messages []llm.Message, _ llm.ChatParams) (string, error) {
			if !strings.Contains(messages[0].Content, "No relevant documents were found.") {
				t.Errorf("expected empty-context placeholder, got %q", messages[0].Content)
			}
			return "I don't have that information.", nil
		})

	s := chat.NewSynthesizer(mockGen)
	if _, err := s.Synthesize(context.Background(), "q", nil, nil, "", llm.ChatParams{}); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
}

func TestSynthesizeGenerationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("model overloaded"))

	s := chat.NewSynthesizer(mockGen)
	_, err := s.Synthesize(context.Background(), "q", nil, nil, "", llm.ChatParams{})

	var genErr *chat.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Stage != "synthesizing" {
		t.Errorf("expected stage synthesizing, got %q", genErr.Stage)
	}
}

func TestSynthesizeEmptyAnswerFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockGenerationClient(ctrl)
	mockGen.EXPECT().
		ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", nil)

	s := chat.NewSynthesizer(mockGen)
	answer, err := s.Synthesize(context.Background(), "q", nil, nil, "", llm.ChatParams{})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if answer != "I'm sorry, I couldn't generate a response." {
		t.Errorf("expected fallback answer, got %q", answer)
	}
}
