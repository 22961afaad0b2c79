package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

func TestOllamaEmbed(t *testing.T) {
	var gotBody ollamaEmbedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 3, time.Second)
	if err != nil {
		t.Fatalf("NewOllamaEmbedder: %v", err)
	}

	vec, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(vec))
	}
	if gotBody.Model != "nomic-embed-text" {
		t.Errorf("request model: got %q", gotBody.Model)
	}
	if gotBody.Prompt != "hello world" {
		t.Errorf("request prompt: got %q", gotBody.Prompt)
	}
}

func TestOllamaEmbedUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 768, time.Second)
	if err != nil {
		t.Fatalf("NewOllamaEmbedder: %v", err)
	}

	_, err = e.Embed(context.Background(), "text")
	if !apperr.IsUpstream(err) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestOllamaEmbedMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	e, err := NewOllamaEmbedder(srv.URL, "nomic-embed-text", 768, time.Second)
	if err != nil {
		t.Fatalf("NewOllamaEmbedder: %v", err)
	}

	_, err = e.Embed(context.Background(), "text")
	if !apperr.IsUpstream(err) {
		t.Errorf("expected upstream error for malformed payload, got %v", err)
	}
}

func TestOllamaConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		model string
		dims  int
	}{
		{"missing url", "", "nomic-embed-text", 768},
		{"missing model", "http://localhost:11434/api/embeddings", "", 768},
		{"bad dimensions", "http://localhost:11434/api/embeddings", "nomic-embed-text", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOllamaEmbedder(tt.url, tt.model, tt.dims, 0)
			if !apperr.IsConfiguration(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}
