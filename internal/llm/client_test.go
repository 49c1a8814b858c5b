package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-ai/internal/llm"
)

func TestChatWithMessages(t *testing.T) {
	var gotReq llm.ChatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}

		resp := llm.ChatResponse{
			Choices: []llm.ChatChoice{
				{Message: llm.Message{Role: "assistant", Content: "Hello there"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "test-key", "default-model")
	messages := []llm.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	}

	got, err := client.ChatWithMessages(context.Background(), messages, llm.ChatParams{Temperature: 0.3})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if got != "Hello there" {
		t.Errorf("unexpected reply: %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "default-model" {
		t.Errorf("expected default model, got %q", gotReq.Model)
	}
	if gotReq.Temperature == nil || *gotReq.Temperature != 0.3 {
		t.Errorf("temperature not forwarded: %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(gotReq.Messages))
	}
}

func TestChatWithMessagesModelOverride(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		_ = json.NewEncoder(w).Encode(llm.ChatResponse{
			Choices: []llm.ChatChoice{{Message: llm.Message{Content: "ok"}}},
		})
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "k", "default-model")
	if _, err := client.ChatWithMessages(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.ChatParams{Model: "other-model"}); err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if gotModel != "other-model" {
		t.Errorf("expected per-request model override, got %q", gotModel)
	}
}

func TestChatWithMessagesBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "k", "m")
	if _, err := client.ChatWithMessages(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.ChatParams{}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestChatWithMessagesNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(llm.ChatResponse{})
	}))
	defer server.Close()

	client := llm.NewClient(server.URL, "k", "m")
	if _, err := client.ChatWithMessages(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, llm.ChatParams{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
