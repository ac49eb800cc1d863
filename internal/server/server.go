package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/config"
	"github.com/docread/docread/internal/home"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/providers"
	"github.com/docread/docread/internal/scan"
	"github.com/docread/docread/internal/server/endpoints"
	"github.com/docread/docread/internal/svcctx"
)

// Server is the docread HTTP server. It owns the OCR provider registry, the
// scan service and the metrics recorder, and keeps them in step with the
// config manager.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	scanner    *scan.Service
	metrics    *metrics.Recorder
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host, then 127.0.0.1)
	Host string
	// Port is the port to listen on (default: server.port, then 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support.
	// When nil, DefaultConfig is used and nothing reloads.
	ConfigManager *config.Manager
	// Home is where uploads are staged (default: ~/.docread)
	Home *home.Dir
	// Registry overrides the provider registry built from config.
	// Config reloads still apply to it.
	Registry *providers.Registry
	// Metrics overrides the in-memory metrics recorder.
	Metrics *metrics.Recorder
	// Logger is the structured logger to use
	Logger *slog.Logger
	// Version is reported by /status.
	Version string
	// SwaggerSpecPath overrides the embedded swagger.json.
	SwaggerSpecPath string
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	current := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		current = cfg.ConfigManager.Get()
	}
	if cfg.Host == "" {
		cfg.Host = current.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = current.Server.Port
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.Home == nil {
		h, err := home.New("")
		if err != nil {
			return nil, err
		}
		cfg.Home = h
	}

	// Create provider registry
	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
		registry.Reload(current.ToProviderRegistryConfig())
	}

	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewRecorder(metrics.DefaultCapacity)
	}

	scanner, err := scan.New(scan.Config{
		Registry: registry,
		Home:     cfg.Home,
		Metrics:  recorder,
		Logger:   cfg.Logger,
		Settings: current.ScanSettings(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scan service: %w", err)
	}

	s := &Server{
		registry:  registry,
		scanner:   scanner,
		metrics:   recorder,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// Watch for config changes. The scan route and listen address are
	// fixed at startup.
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			scanner.Apply(c.ScanSettings())
			cfg.Logger.Info("providers and scan settings reloaded from config",
				"providers", registry.ListOCR())
		})
	}

	scanRoute := current.Server.ScanRoute
	if scanRoute == "" {
		scanRoute = endpoints.DefaultScanRoute
	}

	s.services = &svcctx.Services{
		Scanner:   scanner,
		Registry:  registry,
		ConfigMgr: cfg.ConfigManager,
		Metrics:   recorder,
		Logger:    cfg.Logger,
		Home:      cfg.Home,
		ScanRoute: scanRoute,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		ScanRoute:       scanRoute,
		SwaggerSpecPath: cfg.SwaggerSpecPath,
		Version:         cfg.Version,
	}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	handler := s.withServices(s.withLogging(mux))
	if len(current.Server.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: current.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{endpoints.HeaderRequestID, endpoints.HeaderDocumentType, endpoints.HeaderProvider},
		}).Handler(handler)
	}

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(current),
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// writeTimeout leaves room for a scan to use its whole deadline.
func writeTimeout(c *config.Config) time.Duration {
	t := time.Duration(c.Defaults.TimeoutSeconds)*time.Second + 15*time.Second
	if t < 30*time.Second {
		t = 30 * time.Second
	}
	return t
}

// Start starts the HTTP server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.registry.Len() == 0 {
		s.logger.Warn("no OCR providers registered; scans will fail until one is configured")
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server",
			"addr", s.httpServer.Addr,
			"scan_route", s.services.ScanRoute,
			"providers", s.registry.ListOCR())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Scanner returns the scan service.
func (s *Server) Scanner() *scan.Service {
	return s.scanner
}

// Metrics returns the metrics recorder.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs each request at debug level.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// requireInit is middleware that ensures the scan service is wired in.
// Returns 503 Service Unavailable otherwise.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcctx.ScannerFrom(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
