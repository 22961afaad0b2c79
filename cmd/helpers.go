package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ziadkadry99/agentic/internal/agent"
	"github.com/ziadkadry99/agentic/internal/apperr"
	"github.com/ziadkadry99/agentic/internal/chunker"
	"github.com/ziadkadry99/agentic/internal/config"
	"github.com/ziadkadry99/agentic/internal/embeddings"
	"github.com/ziadkadry99/agentic/internal/ingest"
	"github.com/ziadkadry99/agentic/internal/llm"
	"github.com/ziadkadry99/agentic/internal/retriever"
	"github.com/ziadkadry99/agentic/internal/session"
	"github.com/ziadkadry99/agentic/internal/store"
	"github.com/ziadkadry99/agentic/internal/walker"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `agentic init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedder creates an embeddings.Embedder based on config. The
// provider's vector dimension must match the configured store dimension;
// a mismatch here would otherwise fail every upsert and every search.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	var (
		embedder embeddings.Embedder
		err      error
	)
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		embedder, err = embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.Embedding.Model))
	case config.ProviderOllama:
		endpoint := strings.TrimSuffix(cfg.Embedding.URL, "/") + "/api/embeddings"
		timeout := time.Duration(cfg.LLM.Timeout) * time.Second
		embedder, err = embeddings.NewOllamaEmbedder(endpoint, cfg.Embedding.Model, cfg.Embedding.Dimensions, timeout)
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, err
	}
	if embedder.Dimensions() != cfg.Embedding.Dimensions {
		return nil, fmt.Errorf("%w: embedding model %s produces %d-dimensional vectors but embedding.dimensions is %d",
			apperr.ErrConfiguration, cfg.Embedding.Model, embedder.Dimensions(), cfg.Embedding.Dimensions)
	}
	return embedder, nil
}

// createProvider creates an LLM provider based on config settings.
func createProvider(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.LLM.Provider), cfg.LLM.Model)
}

// openStore opens the SQLite chunk store at the configured path.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	st, err := store.Open(cfg.DB.Path, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", cfg.DB.Path, err)
	}
	return st, nil
}

// openSessions opens a Redis session store when configured and falls back
// to an in-memory one otherwise.
func openSessions(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.DB.Redis == "" {
		return session.NewMemoryStore(session.DefaultTTL), nil
	}
	return session.NewRedisStore(ctx, cfg.DB.Redis, session.DefaultTTL)
}

// buildRetriever wires the embedder and store into a retriever.
func buildRetriever(cfg *config.Config, embedder embeddings.Embedder, st store.Store) *retriever.Retriever {
	return retriever.New(embedder, st, cfg.RAG.TopK)
}

// buildAgent wires the retriever and provider into a chat agent.
func buildAgent(cfg *config.Config, ret *retriever.Retriever, provider llm.Provider) *agent.Agent {
	return agent.New(ret, provider, agent.Options{
		SystemPrompt: cfg.RAG.Prompt,
		TopK:         cfg.RAG.TopK,
		Temperature:  cfg.LLM.Temperature,
	})
}

// buildPipeline wires the splitter, embedder, and store into an ingestion
// pipeline.
func buildPipeline(cfg *config.Config, embedder embeddings.Embedder, st store.Store) *ingest.Pipeline {
	splitter := chunker.New(cfg.Splitter.Size, cfg.Splitter.Overlap)
	return ingest.NewPipeline(splitter, embedder, st, cfg.Concurrency)
}

// collectFiles walks a source tree with the configured filters.
func collectFiles(cfg *config.Config, root string) ([]walker.FileInfo, error) {
	files, err := walker.Walk(walker.Config{
		RootDir:    root,
		Extensions: cfg.RAG.Extensions,
		Ignore:     cfg.RAG.Ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, nil
}
