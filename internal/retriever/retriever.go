// Package retriever turns a natural-language query into ranked source
// chunks by embedding the query and searching the chunk store.
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/embeddings"
	"github.com/ziadkadry99/agentic/internal/store"
)

// DefaultTopK is the number of chunks returned when the caller does not
// specify a limit.
const DefaultTopK = 5

// Retriever answers similarity queries against the chunk store.
type Retriever struct {
	embedder embeddings.Embedder
	store    store.Store
	topK     int
}

// New creates a Retriever. topK below 1 falls back to DefaultTopK.
func New(embedder embeddings.Embedder, st store.Store, topK int) *Retriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: st, topK: topK}
}

// Retrieve embeds the query and returns up to topK chunks ranked by
// ascending cosine distance. topK of 0 uses the configured default. A
// non-empty repository restricts the search to that repository. An empty
// index yields an empty slice and no error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, repository string) ([]store.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("retriever: empty query: %w", apperr.ErrValidation)
	}
	if topK < 1 {
		topK = r.topK
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retriever: embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vec, topK, repository)
	if err != nil {
		return nil, fmt.Errorf("retriever: search: %w", err)
	}
	return results, nil
}
