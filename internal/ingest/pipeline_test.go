package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/chunker"
	"github.com/ziadkadry99/agentic/internal/embeddings"
	"github.com/ziadkadry99/agentic/internal/store"
	"github.com/ziadkadry99/agentic/internal/walker"
)

// stubEmbedder produces a deterministic vector from the text content, so
// identical inputs always embed identically. Texts containing failOn fail
// with an upstream error instead; failLimit bounds how many times they
// fail before recovering, with 0 meaning they always fail.
type stubEmbedder struct {
	dims      int
	failOn    string
	failLimit int64
	calls     int64
	failures  int64
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		if s.failLimit == 0 || atomic.LoadInt64(&s.failures) < s.failLimit {
			atomic.AddInt64(&s.failures, 1)
			return nil, fmt.Errorf("%w: embedding backend unavailable", apperr.ErrUpstream)
		}
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()
	vec := make([]float32, s.dims)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000.0 + 0.001
	}
	return vec, nil
}

func (s *stubEmbedder) Dimensions() int { return s.dims }
func (s *stubEmbedder) Name() string    { return "stub" }

func writeSourceFiles(t *testing.T, contents map[string]string) []walker.FileInfo {
	t.Helper()
	root := t.TempDir()
	var files []walker.FileInfo
	for rel, body := range contents {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
		files = append(files, walker.FileInfo{Path: path, RelPath: rel, Size: int64(len(body))})
	}
	return files
}

func newTestPipeline(t *testing.T, embedder *stubEmbedder) (*Pipeline, *store.SQLiteStore) {
	t.Helper()
	st, err := store.OpenMemory(embedder.dims)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	retry := embeddings.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
	return NewPipelineWithRetry(chunker.New(200, 2), embedder, st, 4, retry), st
}

func TestIngestPersistsAllChunks(t *testing.T) {
	files := writeSourceFiles(t, map[string]string{
		"a.py": "def one():\n    return 1\n\ndef two():\n    return 2\n",
		"b.py": "class Thing:\n    pass\n",
	})
	embedder := &stubEmbedder{dims: 4}
	p, st := newTestPipeline(t, embedder)

	res, err := p.Ingest(context.Background(), files, "demo")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Failed != 0 {
		t.Errorf("Failed = %d, want 0", res.Failed)
	}
	if res.Persisted == 0 || res.Persisted != res.Chunks {
		t.Errorf("Persisted = %d, Chunks = %d, want equal and nonzero", res.Persisted, res.Chunks)
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalChunks != res.Persisted {
		t.Errorf("stored %d chunks, result says %d", stats.TotalChunks, res.Persisted)
	}
	if stats.Repositories != 1 || stats.Files != 2 {
		t.Errorf("repos=%d files=%d, want 1 and 2", stats.Repositories, stats.Files)
	}
}

func TestIngestIsolatesChunkFailures(t *testing.T) {
	contents := make(map[string]string, 10)
	for i := 0; i < 10; i++ {
		body := fmt.Sprintf("def handler_%d():\n    return %d\n", i, i)
		if i == 5 {
			body = "def broken():\n    return POISON\n"
		}
		contents[fmt.Sprintf("f%d.py", i)] = body
	}
	files := writeSourceFiles(t, contents)
	embedder := &stubEmbedder{dims: 4, failOn: "POISON"}
	p, st := newTestPipeline(t, embedder)

	res, err := p.Ingest(context.Background(), files, "demo")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Failed < 1 {
		t.Errorf("Failed = %d, want >= 1", res.Failed)
	}
	if res.Persisted != res.Chunks-res.Failed {
		t.Errorf("Persisted = %d, want %d", res.Persisted, res.Chunks-res.Failed)
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Files != 9 {
		t.Errorf("stored files = %d, want 9", stats.Files)
	}
}

func TestIngestRetriesTransientEmbedFailure(t *testing.T) {
	files := writeSourceFiles(t, map[string]string{
		"flaky.py": "def FLAKY():\n    return 1\n",
	})
	// The backend fails twice and recovers on the third attempt, within
	// the pipeline's retry budget.
	embedder := &stubEmbedder{dims: 4, failOn: "FLAKY", failLimit: 2}
	p, st := newTestPipeline(t, embedder)

	res, err := p.Ingest(context.Background(), files, "demo")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Failed != 0 {
		t.Errorf("Failed = %d, want 0 after retry recovery", res.Failed)
	}
	if res.Persisted != res.Chunks {
		t.Errorf("Persisted = %d, Chunks = %d, want equal", res.Persisted, res.Chunks)
	}
	if embedder.failures != 2 {
		t.Errorf("upstream failures = %d, want 2", embedder.failures)
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalChunks != res.Persisted {
		t.Errorf("stored %d chunks, result says %d", stats.TotalChunks, res.Persisted)
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	files := writeSourceFiles(t, map[string]string{
		"a.py": "def one():\n    return 1\n",
	})
	embedder := &stubEmbedder{dims: 4}
	p, st := newTestPipeline(t, embedder)

	first, err := p.Ingest(context.Background(), files, "demo")
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	second, err := p.Ingest(context.Background(), files, "demo")
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if first.Persisted != second.Persisted {
		t.Errorf("runs persisted %d then %d chunks", first.Persisted, second.Persisted)
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalChunks != first.Persisted {
		t.Errorf("TotalChunks = %d after two runs, want %d", stats.TotalChunks, first.Persisted)
	}
}

func TestIngestSearchRoundTrip(t *testing.T) {
	files := writeSourceFiles(t, map[string]string{
		"auth.py": "def check_password(user, password):\n    return user.hash == hash(password)\n",
		"math.py": "def add(a, b):\n    return a + b\n",
	})
	embedder := &stubEmbedder{dims: 4}
	p, st := newTestPipeline(t, embedder)

	if _, err := p.Ingest(context.Background(), files, "demo"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	// Embedding the exact stored text must rank its own chunk first.
	query := "def add(a, b):\n    return a + b\n"
	vec, err := embedder.Embed(context.Background(), query)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	results, err := st.Search(context.Background(), vec, 2, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].FilePath != "math.py" {
		t.Errorf("top result = %s, want math.py", results[0].FilePath)
	}
	if results[0].Distance > results[len(results)-1].Distance {
		t.Error("results not sorted by ascending distance")
	}
}

func TestReindexReplacesRepository(t *testing.T) {
	old := writeSourceFiles(t, map[string]string{
		"old.py": "def old():\n    pass\n",
	})
	embedder := &stubEmbedder{dims: 4}
	p, st := newTestPipeline(t, embedder)

	if _, err := p.Ingest(context.Background(), old, "demo"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	fresh := writeSourceFiles(t, map[string]string{
		"new.py": "def fresh():\n    pass\n",
	})
	res, err := p.Reindex(context.Background(), fresh, "demo")
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if res.Persisted == 0 {
		t.Fatal("nothing persisted by reindex")
	}

	stats, err := st.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalChunks != res.Persisted {
		t.Errorf("TotalChunks = %d, want %d (stale rows left behind)", stats.TotalChunks, res.Persisted)
	}
}

func TestIngestEmptyRepositoryName(t *testing.T) {
	embedder := &stubEmbedder{dims: 4}
	p, _ := newTestPipeline(t, embedder)
	if _, err := p.Ingest(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for empty repository name")
	}
}

func TestIngestCancelledContext(t *testing.T) {
	files := writeSourceFiles(t, map[string]string{
		"a.py": "def one():\n    return 1\n",
	})
	embedder := &stubEmbedder{dims: 4}
	p, _ := newTestPipeline(t, embedder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Ingest(ctx, files, "demo"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestChunkID(t *testing.T) {
	got := ChunkID("demo", "pkg/auth.py", 3)
	if got != "demo:pkg/auth.py:3" {
		t.Errorf("ChunkID = %q", got)
	}
}

func TestResolveRepositoryName(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "myservice")
	sub := filepath.Join(project, "internal", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(project, "go.mod"), []byte("module myservice\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	if got := ResolveRepositoryName(sub); got != "myservice" {
		t.Errorf("ResolveRepositoryName(sub) = %q, want myservice", got)
	}
}
