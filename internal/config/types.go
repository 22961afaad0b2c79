package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderAzure  ProviderType = "azure"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level configuration, corresponding to .agentic.yml.
type Config struct {
	Server      ServerConfig    `yaml:"server" koanf:"server"`
	DB          DBConfig        `yaml:"db" koanf:"db"`
	LLM         LLMConfig       `yaml:"llm" koanf:"llm"`
	Embedding   EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	RAG         RAGConfig       `yaml:"rag" koanf:"rag"`
	Splitter    SplitterConfig  `yaml:"splitter" koanf:"splitter"`
	Concurrency int             `yaml:"concurrency" koanf:"concurrency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port int    `yaml:"port" koanf:"port"`
}

// DBConfig holds storage settings.
type DBConfig struct {
	Path  string `yaml:"path" koanf:"path"`   // SQLite database file.
	Redis string `yaml:"redis" koanf:"redis"` // Redis URL for sessions; empty uses in-memory sessions.
}

// LLMConfig holds chat completion settings.
type LLMConfig struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	Temperature float64      `yaml:"temperature" koanf:"temperature"`
	Timeout     int          `yaml:"timeout" koanf:"timeout"` // Request timeout in seconds.
}

// EmbeddingConfig holds embedding backend settings.
type EmbeddingConfig struct {
	Provider   ProviderType `yaml:"provider" koanf:"provider"`
	Model      string       `yaml:"model" koanf:"model"`
	Dimensions int          `yaml:"dimensions" koanf:"dimensions"`
	URL        string       `yaml:"url" koanf:"url"` // Ollama embedding endpoint base URL.
}

// RAGConfig holds retrieval and prompting settings.
type RAGConfig struct {
	Prompt     string   `yaml:"prompt" koanf:"prompt"`         // System prompt; empty uses the built-in default.
	TopK       int      `yaml:"topk" koanf:"topk"`             // Chunks retrieved per question.
	Extensions []string `yaml:"extensions" koanf:"extensions"` // Source file extensions to ingest.
	Ignore     []string `yaml:"ignore" koanf:"ignore"`         // Glob patterns excluded from ingestion.
}

// SplitterConfig holds chunking settings.
type SplitterConfig struct {
	Size    int `yaml:"size" koanf:"size"`       // Target chunk size in characters.
	Overlap int `yaml:"overlap" koanf:"overlap"` // Overlap between consecutive chunks in lines.
}
