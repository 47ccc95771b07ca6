package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// HTTPLogger provides structured logging for the HTTP server
type HTTPLogger struct {
	component string
	verbose   bool
	level     entities.LogLevel
}

// NewHTTPLogger creates a new HTTP logger instance
func NewHTTPLogger(component string, verbose bool) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		verbose:   verbose,
		level:     entities.LogLevelInfo, // Default level
	}
}

// NewHTTPLoggerWithLevel creates a new HTTP logger instance with specific level
func NewHTTPLoggerWithLevel(component string, verbose bool, level entities.LogLevel) *HTTPLogger {
	return &HTTPLogger{
		component: component,
		verbose:   verbose,
		level:     level,
	}
}

// shouldLog checks if the message should be logged based on level
func (l *HTTPLogger) shouldLog(msgLevel entities.LogLevel) bool {
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

// Debug logs debug messages (only if debug level is enabled)
func (l *HTTPLogger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) {
		log.Printf("[DEBUG] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Info logs informational messages (only if info level or higher is enabled)
func (l *HTTPLogger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[INFO] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Warn logs warning messages (only if warn level or higher is enabled)
func (l *HTTPLogger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		log.Printf("[WARN] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Error logs error messages (always logged)
func (l *HTTPLogger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		log.Printf("[ERROR] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// Success logs success messages (only if info level or higher is enabled)
func (l *HTTPLogger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		log.Printf("[SUCCESS] [%s] "+msg, append([]interface{}{l.component}, args...)...)
	}
}

// SetLevel updates the logging level
func (l *HTTPLogger) SetLevel(level entities.LogLevel) {
	l.level = level
}

// Server serves the interactive converter UI and its API. Per-upload state
// lives in the session store; the conversion pipeline itself is stateless.
type Server struct {
	server    *http.Server
	sessions  *SessionStore
	converter ports.ConversionService
	preview   ports.PreviewRenderer
	config    *entities.ServerConfig
	version   string
	logger    *HTTPLogger
	wsClients map[string]*previewClient
	mu        sync.RWMutex
	running   bool
}

// NewServer creates a new HTTP server
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(converter ports.ConversionService, preview ports.PreviewRenderer, config *entities.ServerConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	return &Server{
		converter: converter,
		preview:   preview,
		sessions:  NewSessionStore(config.GetSessionTTL(), ports.NewRealClock()),
		config:    config,
		version:   "dev",
		logger:    NewHTTPLogger("server", false), // Default logger, can be overridden
		wsClients: make(map[string]*previewClient),
	}
}

// NewServerWithLogging creates a new HTTP server with logging configuration
func NewServerWithLogging(converter ports.ConversionService, preview ports.PreviewRenderer, config *entities.ServerConfig, loggingConfig *entities.LoggingConfig) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}

	level := entities.LogLevelInfo
	verbose := false

	if loggingConfig != nil {
		level = loggingConfig.GetLevel()
		verbose = loggingConfig.Verbose
	}

	return &Server{
		converter: converter,
		preview:   preview,
		sessions:  NewSessionStore(config.GetSessionTTL(), ports.NewRealClock()),
		config:    config,
		version:   "dev",
		logger:    NewHTTPLoggerWithLevel("server", verbose, level),
		wsClients: make(map[string]*previewClient),
	}
}

// SetLogger sets the HTTP logger with verbose configuration
func (s *Server) SetLogger(verbose bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = NewHTTPLogger("server", verbose)
}

// SetVersion sets the version string reported by the health endpoint
func (s *Server) SetVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version != "" {
		s.version = version
	}
}

// Sessions exposes the session store, mainly for tests
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	// Start the session janitor
	go s.sessions.Run(ctx)

	router := s.setupRoutes()

	// Add CORS middleware with configurable origins from config
	corsOrigins := s.config.GetCORSOrigins()

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
	handler := c.Handler(router)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      handler,
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  2 * s.config.GetReadTimeout(),
	}
	s.running = true
	s.mu.Unlock()

	// Start server in goroutine
	go func() {
		s.logger.Info("HTTP server starting on %s:%d", host, port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	// Close all WebSocket preview connections
	s.closeClientsLocked()

	// Drop in-memory sessions; decks not yet downloaded are gone
	s.sessions.Clear()

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", s.handleWebSocket)

	// API endpoints
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents", s.handleUploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/outline", s.handleGenerateOutline).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/deck", s.handleBuildDeck).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/deck", s.handleDownloadDeck).Methods(http.MethodGet)
	api.HandleFunc("/preview", s.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// UI page
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	// Apply middleware in order: security -> rate limiting -> logging -> recovery
	handler := securityHeadersMiddleware(router)
	handler = rateLimitMiddleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// registerClient tracks a live preview connection so Stop can close it
func (s *Server) registerClient(c *previewClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wsClients[c.id] = c
}

// unregisterClient drops a preview connection from tracking
func (s *Server) unregisterClient(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wsClients, id)
}

// closeClientsLocked closes every tracked preview connection; callers hold s.mu
func (s *Server) closeClientsLocked() {
	for id, client := range s.wsClients {
		client.close()
		delete(s.wsClients, id)
	}
}
