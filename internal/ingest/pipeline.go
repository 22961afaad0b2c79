package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/agentic/internal/chunker"
	"github.com/ziadkadry99/agentic/internal/embeddings"
	"github.com/ziadkadry99/agentic/internal/store"
	"github.com/ziadkadry99/agentic/internal/walker"
)

// ProgressFunc is called after each chunk is processed.
type ProgressFunc func(done, total int, path string)

// Pipeline orchestrates the ingestion workflow: read -> split -> embed -> store.
type Pipeline struct {
	splitter    *chunker.Splitter
	embedder    embeddings.Embedder
	store       store.Store
	concurrency int
	onProgress  ProgressFunc
}

// NewPipeline creates a Pipeline. The embedder is wrapped with the default
// retry policy so transient backend failures do not fail whole files.
// Concurrency below 1 is raised to 1.
func NewPipeline(splitter *chunker.Splitter, embedder embeddings.Embedder, st store.Store, concurrency int) *Pipeline {
	return NewPipelineWithRetry(splitter, embedder, st, concurrency, embeddings.DefaultRetryConfig())
}

// NewPipelineWithRetry is NewPipeline with an explicit retry policy for the
// embedding calls.
func NewPipelineWithRetry(splitter *chunker.Splitter, embedder embeddings.Embedder, st store.Store, concurrency int, retry embeddings.RetryConfig) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		splitter:    splitter,
		embedder:    embeddings.WithRetry(embedder, retry),
		store:       st,
		concurrency: concurrency,
	}
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// Result summarizes one ingestion run.
type Result struct {
	Repository string        `json:"repository"`
	Files      int           `json:"files"`
	Chunks     int           `json:"chunks"`
	Persisted  int           `json:"persisted"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

type workItem struct {
	id       string
	filePath string
	text     string
}

// Ingest splits every file into chunks, embeds them, and upserts them into
// the store under the given repository name. A chunk that fails to embed or
// persist is logged, counted in Result.Failed, and skipped; the remaining
// chunks are unaffected. Re-running Ingest over unchanged files overwrites
// the same chunk IDs rather than duplicating rows.
func (p *Pipeline) Ingest(ctx context.Context, files []walker.FileInfo, repository string) (*Result, error) {
	if repository == "" {
		return nil, fmt.Errorf("ingest: repository name is empty")
	}

	start := time.Now()

	var items []workItem
	for _, f := range files {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			log.Printf("ingest: read %s: %v", f.RelPath, err)
			continue
		}
		for i, ch := range p.splitter.Split(string(content), f.RelPath) {
			items = append(items, workItem{
				id:       ChunkID(repository, f.RelPath, i),
				filePath: f.RelPath,
				text:     ch.Text,
			})
		}
	}

	result := &Result{
		Repository: repository,
		Files:      len(files),
		Chunks:     len(items),
	}

	var done, persisted, failed int64
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				atomic.AddInt64(&failed, 1)
				return err
			}

			err := p.processChunk(gctx, repository, item)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Printf("ingest: %s: %v", item.id, err)
			} else {
				atomic.AddInt64(&persisted, 1)
			}

			count := atomic.AddInt64(&done, 1)
			if p.onProgress != nil {
				mu.Lock()
				p.onProgress(int(count), len(items), item.filePath)
				mu.Unlock()
			}
			// Chunk failures are isolated; only cancellation stops the run.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	result.Persisted = int(persisted)
	result.Failed = int(failed)
	result.Duration = time.Since(start)
	return result, nil
}

func (p *Pipeline) processChunk(ctx context.Context, repository string, item workItem) error {
	vec, err := p.embedder.Embed(ctx, item.text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	chunk := store.Chunk{
		ID:         item.id,
		Repository: repository,
		FilePath:   item.filePath,
		Text:       item.text,
		Embedding:  vec,
	}
	if err := p.store.Upsert(ctx, chunk); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// Reindex deletes every stored chunk for the repository and ingests the
// given files from scratch. The delete and the re-ingest are not one
// transaction; a query racing a reindex may see a partially rebuilt index.
func (p *Pipeline) Reindex(ctx context.Context, files []walker.FileInfo, repository string) (*Result, error) {
	deleted, err := p.store.DeleteRepository(ctx, repository)
	if err != nil {
		return nil, fmt.Errorf("reindex: clear %s: %w", repository, err)
	}
	if deleted > 0 {
		log.Printf("ingest: removed %d stale chunks for %s", deleted, repository)
	}
	return p.Ingest(ctx, files, repository)
}

// ChunkID returns the stable identifier for a chunk: the repository, the
// slash-separated file path, and the chunk's position within the file.
func ChunkID(repository, filePath string, position int) string {
	return fmt.Sprintf("%s:%s:%d", repository, filePath, position)
}
