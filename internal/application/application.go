package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/packer/internal/api"
	"github.com/eugenenazirov/packer/internal/config"
	"github.com/eugenenazirov/packer/internal/packer"
	"github.com/eugenenazirov/packer/internal/packfile"
	"github.com/eugenenazirov/packer/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	cache     *storage.MemoryStorage
	selector  packer.Selector
	processor *packfile.Processor
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	selector, processor, cache := NewProcessor(cfg, logger)

	handler := api.NewHandler(processor, cache, api.WithMaxBodyBytes(cfg.MaxBodyBytes))
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		cache:     cache,
		selector:  selector,
		processor: processor,
		handler:   handler,
		router:    apiRouter,
		logger:    logger,
		server:    NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// NewProcessor builds the selector, result cache, and line processor shared by
// the CLI and the HTTP service.
func NewProcessor(cfg config.Config, logger *zap.Logger) (packer.Selector, *packfile.Processor, *storage.MemoryStorage) {
	selector := packer.New(packer.WithLogger(logger.Named("packer")))
	cache := storage.NewMemoryStorage(cfg.CacheSize)
	processor := packfile.NewProcessor(selector,
		packfile.WithCache(cache),
		packfile.WithWorkers(cfg.Workers),
		packfile.WithLogger(logger.Named("packfile")),
	)
	return selector, processor, cache
}

// BuildRootHandler mounts the API under /api/ and answers the root path with a
// short plain-text description.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "packer: POST /api/pack with {\"lines\": [\"81 : (1,53.38,€45)\"]}")
	}))
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.Int("cache_capacity", a.cache.Stats().Capacity),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Selector returns the pack selector shared by the processor and the API.
func (a *App) Selector() packer.Selector {
	return a.selector
}

// Handler returns the API handler mounted under /api/.
func (a *App) Handler() *api.Handler {
	return a.handler
}

// Processor returns the line processor backing the HTTP API.
func (a *App) Processor() *packfile.Processor {
	return a.processor
}
