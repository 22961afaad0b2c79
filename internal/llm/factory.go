package llm

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/agentic/internal/apperr"
)

// NewProvider creates an LLM provider for the given provider type and model.
// Supported provider types: "openai", "azure", "ollama". API keys come from
// the environment.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set: %w", apperr.ErrConfiguration)
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "azure":
		apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable is not set: %w", apperr.ErrConfiguration)
		}
		endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT environment variable is not set: %w", apperr.ErrConfiguration)
		}
		return NewAzureProvider(apiKey, endpoint, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type %q: %w", providerType, apperr.ErrConfiguration)
	}
}
