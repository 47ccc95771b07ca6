package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"

	deckhttp "github.com/deckgen/deckgen/internal/adapters/primary/http"
	"github.com/deckgen/deckgen/internal/adapters/secondary/assembler"
	"github.com/deckgen/deckgen/internal/adapters/secondary/browser"
	"github.com/deckgen/deckgen/internal/adapters/secondary/config"
	"github.com/deckgen/deckgen/internal/adapters/secondary/extractor"
	"github.com/deckgen/deckgen/internal/adapters/secondary/generator"
	"github.com/deckgen/deckgen/internal/adapters/secondary/parser"
	"github.com/deckgen/deckgen/internal/adapters/secondary/renderer"
	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
	"github.com/deckgen/deckgen/internal/domain/services"
)

var (
	// Serve command flags
	port      int
	host      string
	noBrowser bool
	provider  string
	modelName string
)

// Logger provides structured logging for the serve command
type Logger struct {
	verbose bool
	level   entities.LogLevel
}

// shouldLog checks if the message should be logged based on level
func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	levelMap := map[entities.LogLevel]int{
		entities.LogLevelDebug: 0,
		entities.LogLevelInfo:  1,
		entities.LogLevelWarn:  2,
		entities.LogLevelError: 3,
	}

	currentLevel := levelMap[l.level]
	messageLevel := levelMap[msgLevel]

	return messageLevel >= currentLevel
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) && l.verbose {
		log.Printf("[INFO] "+msg, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] "+msg, args...)
	}
}

// Error logs error messages (always shown if error level)
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] "+msg, args...)
	}
}

// Success logs success messages
func (l *Logger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) && l.verbose {
		log.Printf("[SUCCESS] "+msg, args...)
	}
}

// newLoggerWithLevel creates a new logger instance with specific level
func newLoggerWithLevel(verbose bool, level entities.LogLevel) *Logger {
	return &Logger{
		verbose: verbose,
		level:   level,
	}
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive converter in a browser",
	Long: `Start a local HTTP server with the interactive converter: upload a PDF,
review and edit the generated outline with a live preview, and download
the finished deck.

Example:
  deckgen serve
  deckgen serve --port 8080 --no-browser`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Add command flags - defaults will be overridden by config loading
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically (overrides config)")
	serveCmd.Flags().StringVar(&provider, "provider", "", "Generation provider, gemini or openai (overrides config)")
	serveCmd.Flags().StringVarP(&modelName, "model", "m", "", "Generation model (overrides config)")
}

// validateServeConfig validates configuration after it's loaded
func validateServeConfig(config *entities.Config) error {
	// Port validation
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	// Host validation
	if strings.Contains(config.Server.Host, " ") || strings.Contains(config.Server.Host, "!") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Load and validate configuration
	finalConfig, err := loadAndValidateConfig(cmd, ".", serveFlagOverrides(cmd))
	if err != nil {
		return err
	}
	if err := validateServeConfig(finalConfig); err != nil {
		return err
	}

	// Get verbose flag and create logger with logging configuration
	verbose, _ := cmd.Flags().GetBool("verbose")

	// Override verbose setting from config if flag wasn't explicitly set
	if !cmd.Flags().Changed("verbose") {
		verbose = finalConfig.Logging.Verbose
	}

	logger := newLoggerWithLevel(verbose, finalConfig.Logging.GetLevel())
	printStartupInfo(logger, finalConfig)

	// Wire the conversion pipeline
	pipeline, err := buildPipeline(finalConfig)
	if err != nil {
		return err
	}

	preview, err := renderer.NewHTMLPreviewRenderer()
	if err != nil {
		return fmt.Errorf("creating preview renderer: %w", err)
	}

	server := deckhttp.NewServerWithLogging(pipeline, preview, &finalConfig.Server, &finalConfig.Logging)
	server.SetVersion(Version)

	// Start server and handle lifecycle
	return startAndManageServer(cmd.Context(), server, finalConfig, logger)
}

// serveFlagOverrides collects the serve flags the user explicitly set
func serveFlagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("port") {
		flags["port"] = port
	}
	if cmd.Flags().Changed("host") {
		flags["host"] = host
	}
	if cmd.Flags().Changed("no-browser") {
		flags["no-browser"] = noBrowser
	}
	if cmd.Flags().Changed("provider") {
		flags["provider"] = provider
	}
	if cmd.Flags().Changed("model") {
		flags["model"] = modelName
	}
	return flags
}

// loadAndValidateConfig resolves configuration for a command with the usual
// precedence: CLI flags > environment > local config > global config >
// defaults. An explicit --config path replaces the global/local search.
func loadAndValidateConfig(cmd *cobra.Command, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	merger := config.NewConfigMerger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		fileConfig, err := loader.LoadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		finalConfig := merger.ApplyFlags(merger.ApplyEnvVars(merger.Merge(config.GetDefaultConfig(), fileConfig)), flags)
		if err := finalConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return finalConfig, nil
	}

	configService := services.NewConfigService(loader, merger)
	finalConfig, err := configService.LoadConfig(ctx, workingDir, flags)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	return finalConfig, nil
}

// buildPipeline wires the extraction, generation, parsing and assembly
// adapters into the conversion service. It fails when the configured
// generation provider has no API key in the environment.
func buildPipeline(config *entities.Config) (*services.ConversionService, error) {
	gen, err := generator.New(config.Generator, config.Extractor.GetChunkSize())
	if err != nil {
		return nil, err
	}

	chain := extractor.NewChainExtractor(config.Extractor,
		extractor.NewMuPDFStrategy(),
		extractor.NewPDFReaderStrategy(),
	)

	return services.NewConversionService(
		chain,
		gen,
		parser.NewOutlineParser(),
		assembler.NewPPTXAssembler(ports.NewRealClock()),
		config.Deck,
		newPipelineLogger(config.Logging),
	), nil
}

// newPipelineLogger builds the slog logger the domain services write to
func newPipelineLogger(config entities.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch config.GetLevel() {
	case entities.LogLevelDebug:
		level = slog.LevelDebug
	case entities.LogLevelWarn:
		level = slog.LevelWarn
	case entities.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// printStartupInfo prints startup information if verbose mode is enabled
func printStartupInfo(logger *Logger, config *entities.Config) {
	logger.Info("Attempting to start server at: %s", getServerURL(config))
	logger.Info("Generation provider: %s, model: %s", config.Generator.GetProvider(), config.Generator.GetModel())
	if config.Browser.AutoOpen {
		logger.Info("Browser will open automatically if server starts successfully")
	}
}

// getServerURL returns the URL the server is reachable at
func getServerURL(config *entities.Config) string {
	return fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
}

// startAndManageServer starts the server and manages its lifecycle
func startAndManageServer(ctx context.Context, server *deckhttp.Server, config *entities.Config, logger *Logger) error {
	// Probe the port first so a bind failure surfaces here instead of inside
	// the server goroutine
	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use or cannot be bound: %w", config.Server.Port, err)
	}
	if err := listener.Close(); err != nil {
		return fmt.Errorf("failed to release port after testing: %w", err)
	}

	if err := server.Start(ctx, config.Server.Port, config.Server.Host); err != nil {
		return err
	}

	url := getServerURL(config)
	fmt.Printf("deckgen running at %s (press Ctrl+C to stop)\n", url)
	logger.Success("Server running at: %s", url)

	// Open browser if configured
	if config.Browser.AutoOpen {
		openBrowserIfConfigured(config, logger)
	}

	// Block until the interrupt arrives through the root context
	<-ctx.Done()
	logger.Info("Shutting down server...")

	// The root context is already canceled here; Stop applies the configured
	// shutdown timeout itself, so give it a fresh context
	if err := server.Stop(context.Background()); err != nil {
		logger.Error("Error during shutdown: %v", err)
	}

	return nil
}

// openBrowserIfConfigured opens the browser if auto-open is enabled
func openBrowserIfConfigured(config *entities.Config, logger *Logger) {
	browserLauncher := browser.NewLauncher(config.Browser.Browser)

	if err := browserLauncher.Launch(getServerURL(config), false); err != nil {
		logger.Warn("Failed to open browser: %v", err)
	}
}
