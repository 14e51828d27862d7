// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds a fully wired server matching the production route registration

package e2e

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/somemela/powercalc/cache"
	"github.com/somemela/powercalc/config"
	"github.com/somemela/powercalc/handlers"
	"github.com/somemela/powercalc/middleware"
)

// newTestServer wires handlers, cache, and the middleware chain the same way
// main.go does and returns the running server plus its cache. A nil limiter
// disables rate limiting.
func newTestServer(t *testing.T, cfg *config.Config, limiter *middleware.RateLimiter) (*httptest.Server, *cache.Cache) {
	t.Helper()

	c := cache.New(5 * time.Minute)
	h := handlers.NewHandler(cfg, c)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.CORS,
			middleware.RateLimit(limiter, middleware.ClientIP),
		))
		if route.Method == http.MethodPost {
			mux.HandleFunc("OPTIONS "+route.Path, middleware.Chain(route.Handler,
				middleware.LogRequest,
				middleware.CORS,
			))
		}
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, c
}
