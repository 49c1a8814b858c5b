package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-ai/internal/llm"
)

func embeddingsServer(t *testing.T, dims int, captureModel *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req llm.EmbeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if captureModel != nil {
			*captureModel = req.Model
		}

		resp := llm.EmbeddingsResponse{}
		for range req.Input {
			vec := make([]float64, dims)
			for i := range vec {
				vec[i] = 0.5
			}
			resp.Data = append(resp.Data, llm.EmbeddingData{Embedding: vec})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestEmbedTexts(t *testing.T) {
	var gotModel string
	server := embeddingsServer(t, 3, &gotModel)
	defer server.Close()

	client := llm.NewEmbeddingsClient(server.URL, "k", "embed-model", 3)
	vectors, err := client.EmbedTexts(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("EmbedTexts() error = %v", err)
	}

	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if len(vectors[0]) != 3 {
		t.Errorf("expected dimension 3, got %d", len(vectors[0]))
	}
	if gotModel != "embed-model" {
		t.Errorf("expected default model, got %q", gotModel)
	}
}

func TestEmbedTextsWithModelOverride(t *testing.T) {
	var gotModel string
	server := embeddingsServer(t, 2, &gotModel)
	defer server.Close()

	client := llm.NewEmbeddingsClient(server.URL, "k", "embed-model", 2)
	if _, err := client.EmbedTextsWithModel(context.Background(), []string{"a"}, "other-embed"); err != nil {
		t.Fatalf("EmbedTextsWithModel() error = %v", err)
	}
	if gotModel != "other-embed" {
		t.Errorf("expected model override, got %q", gotModel)
	}
}

func TestEmbedTextsEmptyInput(t *testing.T) {
	client := llm.NewEmbeddingsClient("http://unused", "k", "m", 3)
	if _, err := client.EmbedTexts(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEmbedTextsDimensionValidation(t *testing.T) {
	server := embeddingsServer(t, 4, nil)
	defer server.Close()

	// Client expects 3 but the server produces 4.
	client := llm.NewEmbeddingsClient(server.URL, "k", "m", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected dimension validation error")
	}
}

func TestEmbedTextsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := llm.NewEmbeddingsClient(server.URL, "k", "m", 3)
	if _, err := client.EmbedTexts(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
