package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// defaultModels suggests a chat model per provider in the wizard.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o",
	ProviderAzure:  "gpt-4o",
	ProviderOllama: "llama3",
}

// defaultEmbeddings suggests an embedding model and its dimensions per
// backend in the wizard.
var defaultEmbeddings = map[ProviderType]struct {
	Model      string
	Dimensions int
}{
	ProviderOpenAI: {Model: "text-embedding-3-small", Dimensions: 1536},
	ProviderOllama: {Model: "nomic-embed-text", Dimensions: 768},
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .agentic.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to agentic! Let's configure your project.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "azure", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = ProviderType(providerStr)

	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: defaultModels[cfg.LLM.Provider],
	}
	if cfg.LLM.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}

	embedPrompt := promptui.Select{
		Label: "Select embedding backend",
		Items: []string{"ollama", "openai"},
	}
	_, embedStr, err := embedPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	cfg.Embedding.Provider = ProviderType(embedStr)
	if preset, ok := defaultEmbeddings[cfg.Embedding.Provider]; ok {
		cfg.Embedding.Model = preset.Model
		cfg.Embedding.Dimensions = preset.Dimensions
	}

	if cfg.Embedding.Provider == ProviderOllama {
		urlPrompt := promptui.Prompt{
			Label:   "Ollama base URL",
			Default: cfg.Embedding.URL,
		}
		if cfg.Embedding.URL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("ollama url: %w", err)
		}
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("must be a port number")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port selection: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	redisPrompt := promptui.Prompt{
		Label:   "Redis URL for chat sessions (empty for in-memory)",
		Default: "",
	}
	if cfg.DB.Redis, err = redisPrompt.Run(); err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", DefaultConfigFile)
	if envVar := APIKeyEnvVar(cfg.LLM.Provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("Remember to set %s before starting the server.\n", envVar)
		}
	}

	return cfg, nil
}
