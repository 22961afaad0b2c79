// Package store persists code chunks with their embedding vectors and
// serves nearest-neighbor retrieval over them. The store owns all
// persisted rows; the ingestion pipeline and retriever go through this
// interface and never touch storage directly.
package store

import "context"

// Chunk is one persisted unit of indexed text. The ID is stable per
// (repository, file path, position) so re-ingesting the same chunk
// overwrites the existing row instead of duplicating it.
type Chunk struct {
	ID         string    `json:"id"`
	Repository string    `json:"repository"`
	FilePath   string    `json:"file_path"`
	Text       string    `json:"content"`
	Embedding  []float32 `json:"embedding"`
}

// Result is one retrieval hit. Distance is cosine distance; smaller is
// more relevant.
type Result struct {
	FilePath string  `json:"file_path"`
	Text     string  `json:"content"`
	Distance float64 `json:"distance"`
}

// RepositoryCount pairs a repository name with its chunk count.
type RepositoryCount struct {
	Repository string `json:"repository"`
	Chunks     int    `json:"chunks"`
}

// Stats summarizes the indexed corpus.
type Stats struct {
	TotalChunks   int               `json:"total_chunks"`
	Repositories  int               `json:"repositories"`
	Files         int               `json:"files"`
	MinChunkLen   int               `json:"min_chunk_len"`
	AvgChunkLen   float64           `json:"avg_chunk_len"`
	MaxChunkLen   int               `json:"max_chunk_len"`
	PerRepository []RepositoryCount `json:"per_repository,omitempty"`
}

// Store is the chunk persistence and similarity-search interface.
type Store interface {
	// Upsert inserts or updates a chunk keyed by its ID. Idempotent:
	// upserting the same ID twice leaves exactly one row. Rejects empty
	// text and embedding-dimension mismatches with a validation error.
	Upsert(ctx context.Context, c Chunk) error

	// Search returns up to topK rows nearest to vector by cosine
	// distance, ascending. A non-empty repository restricts results to
	// that repository. Zero matches yield an empty slice, not an error.
	Search(ctx context.Context, vector []float32, topK int, repository string) ([]Result, error)

	// DeleteRepository removes all rows for a repository and reports how
	// many were deleted.
	DeleteRepository(ctx context.Context, repository string) (int64, error)

	// Clear removes all rows.
	Clear(ctx context.Context) error

	// Stats returns aggregate counts over the stored chunks. Read-only.
	Stats(ctx context.Context) (*Stats, error)

	// Close releases the underlying connection pool.
	Close() error
}
