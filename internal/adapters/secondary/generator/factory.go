package generator

import (
	"fmt"
	"os"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// New builds the outline generator selected by the provider setting. The API
// key is read from the environment variable named by the configuration, which
// godotenv may have populated from a .env file at startup.
func New(config entities.GeneratorConfig, chunkSize int) (ports.OutlineGenerator, error) {
	apiKey := os.Getenv(config.GetAPIKeyEnv())
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", config.GetAPIKeyEnv())
	}

	switch config.GetProvider() {
	case entities.ProviderGemini:
		return NewGeminiClient(config, apiKey, chunkSize), nil
	case entities.ProviderOpenAI:
		return NewOpenAIClient(config, apiKey, chunkSize), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", config.GetProvider())
	}
}
