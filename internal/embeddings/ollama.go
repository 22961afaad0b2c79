package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

const defaultOllamaTimeout = 30 * time.Second

// OllamaEmbedder generates embeddings by POSTing {model, prompt} to an
// Ollama-compatible endpoint and reading back {embedding: [...]}.
type OllamaEmbedder struct {
	url        string
	model      string
	dimensions int
	httpClient *http.Client
}

// NewOllamaEmbedder creates an Ollama embedder. url is the full embedding
// endpoint (e.g. http://localhost:11434/api/embeddings), model the Ollama
// model name (e.g. "nomic-embed-text"), dimensions the expected output
// dimension count. A zero timeout falls back to 30s.
func NewOllamaEmbedder(url, model string, dimensions int, timeout time.Duration) (*OllamaEmbedder, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: ollama embedding url is not set", apperr.ErrConfiguration)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: ollama embedder model is not set", apperr.ErrConfiguration)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive, got %d", apperr.ErrConfiguration, dimensions)
	}
	if timeout <= 0 {
		timeout = defaultOllamaTimeout
	}
	return &OllamaEmbedder{
		url:        url,
		model:      model,
		dimensions: dimensions,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (e *OllamaEmbedder) Name() string {
	return "ollama/" + e.model
}

func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama request failed: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: ollama returned status %d: %s", apperr.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var result ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode ollama response: %v", apperr.ErrUpstream, err)
	}

	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embedding", apperr.ErrUpstream)
	}

	return result.Embedding, nil
}
