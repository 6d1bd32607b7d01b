// ============================================================================
// Botlang - bot scripting language toolkit
// ============================================================================
//
// Package:     server
// Description: HTTP and websocket decision server for bot scripts
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/msto63/botlang/foundation/botlang/ast"
	"github.com/msto63/botlang/foundation/botlang/interpreter"
	boterror "github.com/msto63/botlang/foundation/core/error"
	"github.com/msto63/botlang/internal/host"
	"github.com/msto63/botlang/internal/journal"
	"github.com/msto63/botlang/pkg/core/cache"
	"github.com/msto63/botlang/pkg/core/health"
	"github.com/msto63/botlang/pkg/core/logging"
	"github.com/msto63/botlang/pkg/core/version"
)

// Server is the bot decision server
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	health     *health.Registry
	decisions  *cache.Cache[*host.Decision]
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	TickTimeout  time.Duration
	Version      string

	// DecisionCacheTTL > 0 reuses decisions for repeated sensor states.
	// Ignored for scripts that call print.
	DecisionCacheTTL  time.Duration
	DecisionCacheSize int

	// Bot evaluated on every tick (required)
	Bot *host.Bot

	// Sensor values used when a tick does not provide them
	Defaults interpreter.Sensors

	// Journal receives one entry per tick (optional)
	Journal journal.Store

	// Logger (optional)
	Logger *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8765,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Second,
		TickTimeout:  time.Second,
		Version:      version.Server,
	}
}

// New creates a new decision server
func New(cfg Config) (*Server, error) {
	if cfg.Bot == nil {
		return nil, boterror.New("server requires a compiled bot").
			WithCode(boterror.CodeValidationFailed).
			WithOperation("server.New")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("botlang-server")
	}

	healthRegistry := health.NewRegistry("botlang-server", cfg.Version)
	healthRegistry.Register(health.StaticCheck("script", "script parsed", map[string]interface{}{
		"filename":   cfg.Bot.Filename(),
		"statements": len(cfg.Bot.Program().Elements),
		"hash":       journal.HashSource(cfg.Bot.Source()),
	}))
	if cfg.Journal != nil {
		store := cfg.Journal
		healthRegistry.Register(health.ErrorCheck("journal", func(ctx context.Context) error {
			_, err := store.Stats(ctx)
			return err
		}))
	}

	ws := NewWebSocketHandler(cfg.Bot, cfg.Defaults, cfg.Journal, cfg.TickTimeout, logger)
	var decisions *cache.Cache[*host.Decision]
	if cfg.DecisionCacheTTL > 0 {
		if hasSideEffects(cfg.Bot) {
			logger.Warn("Decision cache disabled, script calls print", "script", cfg.Bot.Filename())
		} else {
			decisions = cache.New[*host.Decision](cache.Config{
				MaxItems:        cfg.DecisionCacheSize,
				TTL:             cfg.DecisionCacheTTL,
				CleanupInterval: time.Minute,
			})
			ws.WithDecisionCache(decisions)
			healthRegistry.RegisterFunc("decision_cache", func(ctx context.Context) health.CheckResult {
				hits, misses, rate := decisions.Stats()
				return health.CheckResult{
					Name:   "decision_cache",
					Status: health.StatusHealthy,
					Details: map[string]interface{}{
						"entries":  decisions.Size(),
						"hits":     hits,
						"misses":   misses,
						"hit_rate": rate,
					},
				}
			})
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/health", healthRegistry.Handler(5*time.Second))

	handler := loggingMiddleware(logger, mux)
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler:   handler,
		health:    healthRegistry,
		decisions: decisions,
		logger:    logger,
		config:    cfg,
	}, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for the websocket upgrade
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Handler returns the HTTP handler (for embedding and tests)
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting decision server",
		"address", s.Address(),
		"script", s.config.Bot.Filename(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return boterror.Wrap(err, "decision server failed").
			WithCode(boterror.CodeNetworkError).
			WithDetail("address", s.Address())
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping decision server")
	if s.decisions != nil {
		s.decisions.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

// hasSideEffects reports whether the script references print, whose
// output a cached decision would skip
func hasSideEffects(bot *host.Bot) bool {
	for _, name := range ast.CollectReferences(bot.Program()).Identifiers {
		if name == "print" {
			return true
		}
	}
	return false
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
