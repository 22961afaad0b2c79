package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Provider != ProviderOllama {
		t.Errorf("expected default provider %q, got %q", ProviderOllama, cfg.LLM.Provider)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Splitter.Size != 800 || cfg.Splitter.Overlap != 100 {
		t.Errorf("expected default splitter 800/100, got %d/%d", cfg.Splitter.Size, cfg.Splitter.Overlap)
	}
	if cfg.RAG.TopK != 5 {
		t.Errorf("expected default topk 5, got %d", cfg.RAG.TopK)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.agentic.yml")

	original := DefaultConfig()
	original.LLM.Provider = ProviderOpenAI
	original.LLM.Model = "gpt-4o"
	original.Embedding.Provider = ProviderOpenAI
	original.Embedding.Model = "text-embedding-3-small"
	original.Embedding.Dimensions = 1536
	original.RAG.Extensions = []string{".go", ".py"}
	original.DB.Redis = "redis://localhost:6379/0"
	original.Server.Port = 9000

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.LLM.Provider != original.LLM.Provider {
		t.Errorf("llm.provider: got %q, want %q", loaded.LLM.Provider, original.LLM.Provider)
	}
	if loaded.LLM.Model != original.LLM.Model {
		t.Errorf("llm.model: got %q, want %q", loaded.LLM.Model, original.LLM.Model)
	}
	if loaded.Embedding.Dimensions != original.Embedding.Dimensions {
		t.Errorf("embedding.dimensions: got %d, want %d", loaded.Embedding.Dimensions, original.Embedding.Dimensions)
	}
	if loaded.DB.Redis != original.DB.Redis {
		t.Errorf("db.redis: got %q, want %q", loaded.DB.Redis, original.DB.Redis)
	}
	if loaded.Server.Port != original.Server.Port {
		t.Errorf("server.port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if len(loaded.RAG.Extensions) != len(original.RAG.Extensions) {
		t.Errorf("rag.extensions length: got %d, want %d", len(loaded.RAG.Extensions), len(original.RAG.Extensions))
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file returns defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.LLM.Provider != ProviderOllama {
		t.Errorf("expected default provider, got %q", cfg.LLM.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("AGENTIC_LLM_PROVIDER", "openai")
	t.Setenv("AGENTIC_SERVER_PORT", "9999")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLM.Provider != ProviderOpenAI {
		t.Errorf("env override failed: got %q, want %q", loaded.LLM.Provider, ProviderOpenAI)
	}
	if loaded.Server.Port != 9999 {
		t.Errorf("env override failed: got port %d, want 9999", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid provider", func(c *Config) { c.LLM.Provider = "grok" }},
		{"empty model", func(c *Config) { c.LLM.Model = "" }},
		{"temperature out of range", func(c *Config) { c.LLM.Temperature = 3.5 }},
		{"invalid embedding provider", func(c *Config) { c.Embedding.Provider = "azure" }},
		{"zero dimensions", func(c *Config) { c.Embedding.Dimensions = 0 }},
		{"ollama without url", func(c *Config) { c.Embedding.URL = "" }},
		{"empty db path", func(c *Config) { c.DB.Path = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"zero topk", func(c *Config) { c.RAG.TopK = 0 }},
		{"zero chunk size", func(c *Config) { c.Splitter.Size = 0 }},
		{"negative overlap", func(c *Config) { c.Splitter.Overlap = -1 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderAzure, "AZURE_OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
