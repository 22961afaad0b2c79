package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

// SQLiteStore implements Store on a single SQLite database. Similarity
// search is an exact brute-force cosine ranking computed in Go over the
// candidate rows, so results match the brute-force reference by
// construction. The sql.DB pool is safe for concurrent use; WAL mode
// keeps readers unblocked during upserts.
type SQLiteStore struct {
	db         *sql.DB
	dimensions int
}

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
    id         TEXT PRIMARY KEY,
    repository TEXT NOT NULL,
    file_path  TEXT NOT NULL,
    content    TEXT NOT NULL,
    embedding  BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_repository ON chunks(repository);
`

// Open creates or opens the chunk database at path. dimensions is the
// embedding dimension every stored vector must match.
func Open(path string, dimensions int) (*SQLiteStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive, got %d", apperr.ErrConfiguration, dimensions)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &SQLiteStore{db: db, dimensions: dimensions}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store, useful for testing. The pool is
// restricted to a single connection because every SQLite connection gets
// its own private :memory: database.
func OpenMemory(dimensions int) (*SQLiteStore, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive, got %d", apperr.ErrConfiguration, dimensions)
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, dimensions: dimensions}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Dimensions returns the embedding dimension this store enforces.
func (s *SQLiteStore) Dimensions() int { return s.dimensions }

func (s *SQLiteStore) Upsert(ctx context.Context, c Chunk) error {
	if c.ID == "" {
		return fmt.Errorf("%w: chunk id is empty", apperr.ErrValidation)
	}
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: chunk %s has empty content", apperr.ErrValidation, c.ID)
	}
	if len(c.Embedding) != s.dimensions {
		return fmt.Errorf("%w: chunk %s embedding has %d dimensions, store expects %d",
			apperr.ErrValidation, c.ID, len(c.Embedding), s.dimensions)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, repository, file_path, content, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			repository = excluded.repository,
			file_path  = excluded.file_path,
			content    = excluded.content,
			embedding  = excluded.embedding`,
		c.ID, c.Repository, c.FilePath, c.Text, serializeVector(c.Embedding))
	if err != nil {
		return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
	}
	return nil
}

type candidate struct {
	filePath string
	text     string
	distance float64
}

func (s *SQLiteStore) Search(ctx context.Context, vector []float32, topK int, repository string) ([]Result, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, store expects %d",
			apperr.ErrValidation, len(vector), s.dimensions)
	}
	if topK <= 0 {
		return []Result{}, nil
	}

	query := `SELECT file_path, content, embedding FROM chunks`
	var args []any
	if repository != "" {
		query += ` WHERE repository = ?`
		args = append(args, repository)
	}
	// Row order is the stable tie-breaker for equal distances.
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var c candidate
		var blob []byte
		if err := rows.Scan(&c.filePath, &c.text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.distance = cosineDistance(vector, deserializeVector(blob))
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	results := make([]Result, len(candidates))
	for i, c := range candidates {
		results[i] = Result{FilePath: c.filePath, Text: c.text, Distance: c.distance}
	}
	return results, nil
}

func (s *SQLiteStore) DeleteRepository(ctx context.Context, repository string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE repository = ?`, repository)
	if err != nil {
		return 0, fmt.Errorf("delete repository %s: %w", repository, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	return nil
}

// All returns every stored chunk in insertion order. Used by the backup
// export; not part of the Store interface because retrieval never needs
// full enumeration.
func (s *SQLiteStore) All(ctx context.Context) ([]Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, repository, file_path, content, embedding
		FROM chunks
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Repository, &c.FilePath, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.Embedding = deserializeVector(blob)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT repository),
			COUNT(DISTINCT file_path),
			COALESCE(MIN(LENGTH(content)), 0),
			COALESCE(AVG(LENGTH(content)), 0),
			COALESCE(MAX(LENGTH(content)), 0)
		FROM chunks`)

	stats := &Stats{}
	if err := row.Scan(&stats.TotalChunks, &stats.Repositories, &stats.Files,
		&stats.MinChunkLen, &stats.AvgChunkLen, &stats.MaxChunkLen); err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}

	if stats.TotalChunks == 0 {
		return stats, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT repository, COUNT(*) AS chunk_count
		FROM chunks
		GROUP BY repository
		ORDER BY chunk_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("per-repository stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc RepositoryCount
		if err := rows.Scan(&rc.Repository, &rc.Chunks); err != nil {
			return nil, fmt.Errorf("scan repository count: %w", err)
		}
		stats.PerRepository = append(stats.PerRepository, rc)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
