package config

import (
	"os"
	"strconv"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	// Start with first config as base
	result := deepCopy(configs[0])

	// Merge subsequent configs
	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok {
		result.Browser.AutoOpen = !noBrowser
	}

	if provider, ok := flags["provider"].(string); ok && provider != "" {
		result.Generator.Provider = provider
	}

	if model, ok := flags["model"].(string); ok && model != "" {
		result.Generator.Model = model
	}

	if maxSlides, ok := flags["max-slides"].(int); ok && maxSlides > 0 {
		result.Deck.MaxSlides = maxSlides
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	// Server configuration from environment
	if host := os.Getenv("DECKGEN_HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv("DECKGEN_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if uploadStr := os.Getenv("DECKGEN_MAX_UPLOAD_MB"); uploadStr != "" {
		if uploadMB, err := strconv.Atoi(uploadStr); err == nil && uploadMB > 0 {
			result.Server.MaxUploadMB = uploadMB
		}
	}

	// Generator configuration from environment
	if provider := os.Getenv("DECKGEN_PROVIDER"); provider != "" {
		result.Generator.Provider = provider
	}

	if model := os.Getenv("DECKGEN_MODEL"); model != "" {
		result.Generator.Model = model
	}

	if baseURL := os.Getenv("DECKGEN_BASE_URL"); baseURL != "" {
		result.Generator.BaseURL = baseURL
	}

	if apiKeyEnv := os.Getenv("DECKGEN_API_KEY_ENV"); apiKeyEnv != "" {
		result.Generator.APIKeyEnv = apiKeyEnv
	}

	// Extractor configuration from environment
	if chunkStr := os.Getenv("DECKGEN_CHUNK_SIZE"); chunkStr != "" {
		if chunk, err := strconv.Atoi(chunkStr); err == nil && chunk > 0 {
			result.Extractor.ChunkSize = chunk
		}
	}

	if minStr := os.Getenv("DECKGEN_MIN_CONTENT_LENGTH"); minStr != "" {
		if minLength, err := strconv.Atoi(minStr); err == nil && minLength > 0 {
			result.Extractor.MinContentLength = minLength
		}
	}

	// Deck configuration from environment
	if maxSlidesStr := os.Getenv("DECKGEN_MAX_SLIDES"); maxSlidesStr != "" {
		if maxSlides, err := strconv.Atoi(maxSlidesStr); err == nil && maxSlides > 0 {
			result.Deck.MaxSlides = maxSlides
		}
	}

	if font := os.Getenv("DECKGEN_FONT"); font != "" {
		result.Deck.Font = font
	}

	// Browser configuration from environment
	if noBrowserStr := os.Getenv("DECKGEN_NO_BROWSER"); noBrowserStr != "" {
		if noBrowser, err := strconv.ParseBool(noBrowserStr); err == nil {
			result.Browser.AutoOpen = !noBrowser
		}
	}

	if browser := os.Getenv("DECKGEN_BROWSER"); browser != "" {
		result.Browser.Browser = browser
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.MaxUploadMB != 0 {
		target.Server.MaxUploadMB = source.Server.MaxUploadMB
	}
	if source.Server.SessionTTLMinutes != 0 {
		target.Server.SessionTTLMinutes = source.Server.SessionTTLMinutes
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = make([]string, len(source.Server.CORSOrigins))
		copy(target.Server.CORSOrigins, source.Server.CORSOrigins)
	}

	// Generator config
	if source.Generator.Provider != "" {
		target.Generator.Provider = source.Generator.Provider
	}
	if source.Generator.Model != "" {
		target.Generator.Model = source.Generator.Model
	}
	if source.Generator.BaseURL != "" {
		target.Generator.BaseURL = source.Generator.BaseURL
	}
	if source.Generator.APIKeyEnv != "" {
		target.Generator.APIKeyEnv = source.Generator.APIKeyEnv
	}
	if source.Generator.Temperature != 0 {
		target.Generator.Temperature = source.Generator.Temperature
	}
	if source.Generator.TopP != 0 {
		target.Generator.TopP = source.Generator.TopP
	}
	if source.Generator.TopK != 0 {
		target.Generator.TopK = source.Generator.TopK
	}
	if source.Generator.MaxOutputTokens != 0 {
		target.Generator.MaxOutputTokens = source.Generator.MaxOutputTokens
	}
	if source.Generator.TimeoutSeconds != 0 {
		target.Generator.TimeoutSeconds = source.Generator.TimeoutSeconds
	}

	// Extractor config
	if source.Extractor.ChunkSize != 0 {
		target.Extractor.ChunkSize = source.Extractor.ChunkSize
	}
	if source.Extractor.MinContentLength != 0 {
		target.Extractor.MinContentLength = source.Extractor.MinContentLength
	}

	// Deck config
	if source.Deck.MaxSlides != 0 {
		target.Deck.MaxSlides = source.Deck.MaxSlides
	}
	if source.Deck.Font != "" {
		target.Deck.Font = source.Deck.Font
	}
	if source.Deck.FontSizePt != 0 {
		target.Deck.FontSizePt = source.Deck.FontSizePt
	}
	if source.Deck.DefaultTitle != "" {
		target.Deck.DefaultTitle = source.Deck.DefaultTitle
	}

	// Browser config
	if source.Browser.Browser != "" {
		target.Browser.Browser = source.Browser.Browser
	}
	// TOML cannot distinguish an explicit false from an unset boolean, so the
	// auto-open flag always merges
	target.Browser.AutoOpen = source.Browser.AutoOpen

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = source.Logging.Verbose
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := &entities.Config{
		Server:    src.Server,
		Generator: src.Generator,
		Extractor: src.Extractor,
		Deck:      src.Deck,
		Browser:   src.Browser,
		Logging:   src.Logging,
	}

	// The only reference field is the CORS origin slice
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}

	return dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
