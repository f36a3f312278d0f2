package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps ranking request bodies.
const maxBodyBytes = 1 << 20

// Server encapsulates the HTTP server of the application, providing controlled startup and shutdown.
type Server struct {
	// server — embedded HTTP server from net/http package, fully configured and ready to use.
	server *http.Server
}

// ListenAndServe starts the HTTP server and begins listening on the specified address.
// Blocks execution until the server is stopped or an error occurs.
// If server is stopped via Shutdown, method returns http.ErrServerClosed.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server with the provided context.
// Active requests are allowed to complete within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// NewServer creates and configures a new server instance.
//
// Parameters:
// - address: address and port to listen on (e.g., ":8080").
// - router: API v1 routes.
// - limiter: per-client rate limiter; nil disables limiting.
// - gatherer: source of the /metrics endpoint; nil disables it.
func NewServer(
	address string,
	router *ApiV1Router,
	limiter *RateLimiter,
	gatherer prometheus.Gatherer,
) *Server {
	var api http.Handler = router.Mux()
	api = RequestSizeLimiter(maxBodyBytes)(api)
	if limiter != nil {
		api = limiter.Middleware(api)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api)
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	s := Server{&http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    time.Second * 3,
		WriteTimeout:   time.Second * 10,
		MaxHeaderBytes: 1024 * 10,
	}}

	return &s
}
