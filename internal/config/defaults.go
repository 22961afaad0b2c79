package config

// DefaultConfigFile is the conventional config file name.
const DefaultConfigFile = ".agentic.yml"

// DefaultExtensions are the source file extensions ingested by default.
var DefaultExtensions = []string{
	".go", ".py", ".js", ".ts", ".jsx", ".tsx",
	".java", ".rb", ".rs", ".c", ".h", ".cpp", ".hpp",
	".cs", ".php", ".kt", ".swift", ".scala",
	".md", ".yaml", ".yml", ".toml", ".sql", ".sh",
}

// DefaultIgnore are glob patterns excluded from ingestion by default.
var DefaultIgnore = []string{
	"vendor/**",
	"node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	"*.min.js",
	"*.min.css",
	"*.lock",
	"go.sum",
	"package-lock.json",
	"yarn.lock",
}

// DefaultConfig returns a Config with sensible defaults. It runs against a
// local Ollama with no external services required.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		DB: DBConfig{
			Path: "agentic.db",
		},
		LLM: LLMConfig{
			Provider:    ProviderOllama,
			Model:       "llama3",
			Temperature: 0.2,
			Timeout:     120,
		},
		Embedding: EmbeddingConfig{
			Provider:   ProviderOllama,
			Model:      "nomic-embed-text",
			Dimensions: 768,
			URL:        "http://localhost:11434",
		},
		RAG: RAGConfig{
			TopK:       5,
			Extensions: DefaultExtensions,
			Ignore:     DefaultIgnore,
		},
		Splitter: SplitterConfig{
			Size:    800,
			Overlap: 100,
		},
		Concurrency: 4,
	}
}
