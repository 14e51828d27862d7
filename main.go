// ABOUTME: Entry point for the power calculator API service
// ABOUTME: Provides HTTP API for survival sample size and achieved power calculations

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/somemela/powercalc/cache"
	"github.com/somemela/powercalc/config"
	"github.com/somemela/powercalc/handlers"
	"github.com/somemela/powercalc/logger"
	"github.com/somemela/powercalc/middleware"
)

func main() {
	// Load .env if present so LOG_* applies before the logger starts;
	// real deployments set variables directly
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Power Calculator Backend")
	slog.Info("Grid limits configured", "max_rows", cfg.MaxGridRows, "workers", cfg.GridWorkers)
	if cfg.AllowDegenerateTheta {
		slog.Warn("Degenerate hazard ratio accepted, affected rows will be flagged")
	}

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c)

	// Rate limiter shared across all endpoints, keyed by client IP
	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled", "requests_per_minute", cfg.RateLimitDefault)
	}

	// Register routes with shared middleware
	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.CORS,
			middleware.RateLimit(limiter, middleware.ClientIP),
		))

		// Method-specific patterns never see preflight requests, so POST
		// endpoints need an OPTIONS registration. CORS answers it before
		// the handler runs.
		if route.Method == http.MethodPost {
			mux.HandleFunc("OPTIONS "+route.Path, middleware.Chain(route.Handler,
				middleware.LogRequest,
				middleware.CORS,
			))
		}
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
