package entities

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Generator GeneratorConfig `toml:"generator"`
	Extractor ExtractorConfig `toml:"extractor"`
	Deck      DeckConfig      `toml:"deck"`
	Browser   BrowserConfig   `toml:"browser"`
	Logging   LoggingConfig   `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator config: %w", err)
	}

	if err := c.Extractor.Validate(); err != nil {
		return fmt.Errorf("extractor config: %w", err)
	}

	if err := c.Deck.Validate(); err != nil {
		return fmt.Errorf("deck config: %w", err)
	}

	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host              string   `toml:"host"`
	Port              int      `toml:"port"`
	ReadTimeout       int      `toml:"read_timeout"`
	WriteTimeout      int      `toml:"write_timeout"`
	ShutdownTimeout   int      `toml:"shutdown_timeout"`
	Environment       string   `toml:"environment"`
	CORSOrigins       []string `toml:"cors_origins"`
	MaxUploadMB       int      `toml:"max_upload_mb"`
	SessionTTLMinutes int      `toml:"session_ttl_minutes"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	if s.MaxUploadMB < 0 {
		return errors.New("max upload size must be non-negative")
	}

	if s.SessionTTLMinutes < 0 {
		return errors.New("session TTL must be non-negative")
	}

	// Validate CORS origins
	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		// Allow wildcard origin for development
		if origin == "*" {
			continue
		}
		// Basic URL validation
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		// Default to secure localhost origins for development
		return []string{
			"http://localhost:1337",
			"http://127.0.0.1:1337",
		}
	}
	return s.CORSOrigins
}

// GetMaxUploadBytes returns the upload cap in bytes (default 50 MB)
func (s ServerConfig) GetMaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 50 * 1024 * 1024
	}
	return int64(s.MaxUploadMB) * 1024 * 1024
}

// GetSessionTTL returns the idle session lifetime (default 30 minutes)
func (s ServerConfig) GetSessionTTL() time.Duration {
	if s.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// Generation providers selectable via GeneratorConfig.Provider
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// GeneratorConfig contains outline generation service configuration
type GeneratorConfig struct {
	Provider        string  `toml:"provider"`
	Model           string  `toml:"model"`
	BaseURL         string  `toml:"base_url"`
	APIKeyEnv       string  `toml:"api_key_env"`
	Temperature     float64 `toml:"temperature"`
	TopP            float64 `toml:"top_p"`
	TopK            int     `toml:"top_k"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
}

// Validate validates generator configuration
func (g GeneratorConfig) Validate() error {
	switch g.Provider {
	case "", ProviderGemini, ProviderOpenAI:
		// Valid providers
	default:
		return fmt.Errorf("unknown provider: %s (must be %s or %s)", g.Provider, ProviderGemini, ProviderOpenAI)
	}

	if g.Temperature < 0 || g.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}

	if g.TopP < 0 || g.TopP > 1 {
		return errors.New("top_p must be between 0 and 1")
	}

	if g.TopK < 0 {
		return errors.New("top_k must be non-negative")
	}

	if g.MaxOutputTokens < 0 {
		return errors.New("max output tokens must be non-negative")
	}

	if g.TimeoutSeconds < 0 {
		return errors.New("timeout must be non-negative")
	}

	if g.BaseURL != "" {
		if len(g.BaseURL) < 7 ||
			(!strings.HasPrefix(g.BaseURL, "http://") &&
				!strings.HasPrefix(g.BaseURL, "https://")) {
			return fmt.Errorf("base URL must start with http:// or https://: %s", g.BaseURL)
		}
	}

	return nil
}

// GetProvider returns the provider name with default
func (g GeneratorConfig) GetProvider() string {
	if g.Provider == "" {
		return ProviderGemini
	}
	return g.Provider
}

// GetModel returns the model identifier with default
func (g GeneratorConfig) GetModel() string {
	if g.Model == "" {
		return "gemini-2.0-flash"
	}
	return g.Model
}

// GetAPIKeyEnv returns the environment variable holding the API key
func (g GeneratorConfig) GetAPIKeyEnv() string {
	if g.APIKeyEnv != "" {
		return g.APIKeyEnv
	}
	if g.GetProvider() == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}

// GetTemperature returns the sampling temperature with default (0.3)
func (g GeneratorConfig) GetTemperature() float64 {
	if g.Temperature <= 0 {
		return 0.3
	}
	return g.Temperature
}

// GetTopP returns the nucleus sampling parameter with default (0.95)
func (g GeneratorConfig) GetTopP() float64 {
	if g.TopP <= 0 {
		return 0.95
	}
	return g.TopP
}

// GetTopK returns the top-k sampling parameter with default (40)
func (g GeneratorConfig) GetTopK() int {
	if g.TopK <= 0 {
		return 40
	}
	return g.TopK
}

// GetMaxOutputTokens returns the response token budget with default (2048)
func (g GeneratorConfig) GetMaxOutputTokens() int {
	if g.MaxOutputTokens <= 0 {
		return 2048
	}
	return g.MaxOutputTokens
}

// GetTimeout returns the request timeout as a duration (default 60s)
func (g GeneratorConfig) GetTimeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// ExtractorConfig contains PDF text extraction configuration
type ExtractorConfig struct {
	ChunkSize        int `toml:"chunk_size"`
	MinContentLength int `toml:"min_content_length"`
}

// Validate validates extractor configuration
func (e ExtractorConfig) Validate() error {
	if e.ChunkSize < 0 {
		return errors.New("chunk size must be non-negative")
	}

	if e.MinContentLength < 0 {
		return errors.New("min content length must be non-negative")
	}

	if e.ChunkSize > 0 && e.MinContentLength > 0 && e.ChunkSize < e.MinContentLength {
		return errors.New("chunk size must not be smaller than min content length")
	}

	return nil
}

// GetChunkSize returns the text chunk budget in characters (default 15000)
func (e ExtractorConfig) GetChunkSize() int {
	if e.ChunkSize <= 0 {
		return 15000
	}
	return e.ChunkSize
}

// GetMinContentLength returns the minimum viable extracted length (default 100)
func (e ExtractorConfig) GetMinContentLength() int {
	if e.MinContentLength <= 0 {
		return 100
	}
	return e.MinContentLength
}

// DeckConfig contains presentation rendering configuration
type DeckConfig struct {
	MaxSlides    int    `toml:"max_slides"`
	Font         string `toml:"font"`
	FontSizePt   int    `toml:"font_size_pt"`
	DefaultTitle string `toml:"default_title"`
}

// Validate validates deck configuration
func (d DeckConfig) Validate() error {
	if d.MaxSlides < 0 {
		return errors.New("max slides must be non-negative")
	}

	if d.FontSizePt < 0 || d.FontSizePt > 400 {
		return errors.New("font size must be between 0 and 400 points")
	}

	return nil
}

// GetMaxSlides returns the content slide cap with default (10)
func (d DeckConfig) GetMaxSlides() int {
	if d.MaxSlides <= 0 {
		return 10
	}
	return d.MaxSlides
}

// GetFont returns the body typeface with default (Calibri)
func (d DeckConfig) GetFont() string {
	if d.Font == "" {
		return "Calibri"
	}
	return d.Font
}

// GetFontSizePt returns the bullet font size with default (18pt)
func (d DeckConfig) GetFontSizePt() int {
	if d.FontSizePt <= 0 {
		return 18
	}
	return d.FontSizePt
}

// GetDefaultTitle returns the title used when the user supplies none
func (d DeckConfig) GetDefaultTitle() string {
	if d.DefaultTitle == "" {
		return DefaultDeckTitle
	}
	return d.DefaultTitle
}

// BrowserConfig contains browser launch configuration
type BrowserConfig struct {
	AutoOpen bool   `toml:"auto_open"`
	Browser  string `toml:"browser"`
}

// Validate validates browser configuration
func (b BrowserConfig) Validate() error {
	// Browser name validation is minimal since it's platform-dependent
	return nil
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// Valid levels
	case "":
		// Empty is okay, will use default
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo // Default level
	}
	return LogLevel(l.Level)
}
