package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fmk-dating/internal/config"
	"fmk-dating/internal/logger"
)

// WriteJSON renders v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewMux builds the route table: health plus all registered services.
func NewMux(registrars ...Registrar) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	for _, r := range registrars {
		r.Register(mux)
	}
	return mux
}

// HTTPServer wraps the REST listener with graceful shutdown.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer configures the listener for the registered services.
func NewHTTPServer(cfg *config.Config, registrars ...Registrar) *HTTPServer {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           logRequests(NewMux(registrars...)),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	logger.Info("starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
