// Package embeddings provides clients for external embedding backends.
// Clients perform no retries themselves; the ingestion pipeline wraps them
// with Retry where bounded retry is wanted.
package embeddings

import "context"

// Embedder converts a span of text into a fixed-dimension vector.
type Embedder interface {
	// Embed generates the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
