package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Logging returns [Middleware] that logs each request at debug level.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// CallbackServer runs a short-lived loopback HTTP server for one
// authorization callback.
type CallbackServer struct {
	srv    *http.Server
	logger *log.Logger
}

// NewCallbackServer creates a server bound to the loopback interface on the
// given port, serving the provided router.
func NewCallbackServer(port int, router Router, logger *log.Logger) *CallbackServer {
	return &CallbackServer{
		srv: &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving in a background goroutine.
//
// Returns immediately; serve errors other than a clean shutdown are logged.
func (s *CallbackServer) Start() {
	go func() {
		s.logger.Debug("callback server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("callback server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
