package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/deckgen/deckgen/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("DECKGEN_HOST", "localhost"),
			Port:            getEnvIntOrDefault("DECKGEN_PORT", 1337),
			ReadTimeout:     getEnvIntOrDefault("DECKGEN_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault("DECKGEN_WRITE_TIMEOUT", 120),
			ShutdownTimeout: getEnvIntOrDefault("DECKGEN_SHUTDOWN_TIMEOUT", 5),
			CORSOrigins: getEnvSliceOrDefault("DECKGEN_CORS_ORIGINS", []string{
				"http://localhost:1337",
				"http://127.0.0.1:1337",
			}),
			MaxUploadMB:       getEnvIntOrDefault("DECKGEN_MAX_UPLOAD_MB", 50),
			SessionTTLMinutes: getEnvIntOrDefault("DECKGEN_SESSION_TTL_MINUTES", 30),
		},
		Generator: entities.GeneratorConfig{
			Provider:        getEnvOrDefault("DECKGEN_PROVIDER", entities.ProviderGemini),
			Model:           getEnvOrDefault("DECKGEN_MODEL", "gemini-2.0-flash"),
			BaseURL:         getEnvOrDefault("DECKGEN_BASE_URL", ""),
			APIKeyEnv:       getEnvOrDefault("DECKGEN_API_KEY_ENV", ""),
			Temperature:     0.3,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 2048,
			TimeoutSeconds:  getEnvIntOrDefault("DECKGEN_GENERATOR_TIMEOUT", 60),
		},
		Extractor: entities.ExtractorConfig{
			ChunkSize:        getEnvIntOrDefault("DECKGEN_CHUNK_SIZE", 15000),
			MinContentLength: getEnvIntOrDefault("DECKGEN_MIN_CONTENT_LENGTH", 100),
		},
		Deck: entities.DeckConfig{
			MaxSlides:    getEnvIntOrDefault("DECKGEN_MAX_SLIDES", 10),
			Font:         getEnvOrDefault("DECKGEN_FONT", "Calibri"),
			FontSizePt:   getEnvIntOrDefault("DECKGEN_FONT_SIZE_PT", 18),
			DefaultTitle: getEnvOrDefault("DECKGEN_DEFAULT_TITLE", "Business Report"),
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault("DECKGEN_LOG_LEVEL", "info"),
			Verbose: getEnvBoolOrDefault("DECKGEN_LOG_VERBOSE", false),
		},
	}

	// Apply additional environment-based overrides
	applyEnvironmentOverrides(config)

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as comma-separated slice
// or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// applyEnvironmentOverrides applies additional environment-based configuration
func applyEnvironmentOverrides(config *entities.Config) {
	// Browser settings
	if autoOpen := os.Getenv("DECKGEN_BROWSER_AUTO_OPEN"); autoOpen != "" {
		if boolValue, err := strconv.ParseBool(autoOpen); err == nil {
			config.Browser.AutoOpen = boolValue
		}
	}

	if browser := os.Getenv("DECKGEN_BROWSER"); browser != "" {
		config.Browser.Browser = browser
	}

	// Sampling settings
	if temperature := os.Getenv("DECKGEN_TEMPERATURE"); temperature != "" {
		if floatValue, err := strconv.ParseFloat(temperature, 64); err == nil && floatValue > 0 {
			config.Generator.Temperature = floatValue
		}
	}

	if topP := os.Getenv("DECKGEN_TOP_P"); topP != "" {
		if floatValue, err := strconv.ParseFloat(topP, 64); err == nil && floatValue > 0 {
			config.Generator.TopP = floatValue
		}
	}

	if topK := os.Getenv("DECKGEN_TOP_K"); topK != "" {
		if intValue, err := strconv.Atoi(topK); err == nil && intValue > 0 {
			config.Generator.TopK = intValue
		}
	}
}
