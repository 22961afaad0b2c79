// Package config loads, validates, and persists the service configuration.
// A YAML file supplies the base values; AGENTIC_* environment variables
// override individual keys.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. AGENTIC_SERVER_PORT maps to server.port,
// AGENTIC_EMBEDDING_DIMENSIONS to embedding.dimensions, and so on.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %v: %w", path, err, apperr.ErrConfiguration)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %v: %w", path, err, apperr.ErrConfiguration)
	}

	if err := k.Load(env.Provider("AGENTIC_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "AGENTIC_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %v: %w", err, apperr.ErrConfiguration)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized chat provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderAzure:  true,
	ProviderOllama: true,
}

// validEmbeddingProviders is the set of recognized embedding backends.
var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values. It is
// called once at startup; an error here is fatal.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range: %w", c.Server.Port, apperr.ErrConfiguration)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required: %w", apperr.ErrConfiguration)
	}

	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid llm.provider %q: must be one of openai, azure, ollama: %w", c.LLM.Provider, apperr.ErrConfiguration)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required: %w", apperr.ErrConfiguration)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %v out of range [0, 2]: %w", c.LLM.Temperature, apperr.ErrConfiguration)
	}

	if !validEmbeddingProviders[c.Embedding.Provider] {
		return fmt.Errorf("invalid embedding.provider %q: must be openai or ollama: %w", c.Embedding.Provider, apperr.ErrConfiguration)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required: %w", apperr.ErrConfiguration)
	}
	if c.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding.dimensions must be positive: %w", apperr.ErrConfiguration)
	}
	if c.Embedding.Provider == ProviderOllama && c.Embedding.URL == "" {
		return fmt.Errorf("embedding.url is required for the ollama backend: %w", apperr.ErrConfiguration)
	}

	if c.RAG.TopK < 1 {
		return fmt.Errorf("rag.topk must be positive: %w", apperr.ErrConfiguration)
	}
	if c.Splitter.Size < 1 {
		return fmt.Errorf("splitter.size must be positive: %w", apperr.ErrConfiguration)
	}
	if c.Splitter.Overlap < 0 {
		return fmt.Errorf("splitter.overlap must be non-negative: %w", apperr.ErrConfiguration)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive: %w", apperr.ErrConfiguration)
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider. Ollama needs no key.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAzure:
		return "AZURE_OPENAI_API_KEY"
	default:
		return ""
	}
}
