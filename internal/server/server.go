// Package server exposes the conductor, the specialists and location
// extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShayCichocki/litmap/internal/locations"
	"github.com/ShayCichocki/litmap/internal/orchestrator"
)

const (
	// DefaultMaxBodyBytes bounds JSON request bodies.
	DefaultMaxBodyBytes = 1 << 20
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 5 * time.Second
)

// Config wires the server to its collaborators. Every field except Logger,
// Source and MaxUploadBytes is required.
type Config struct {
	Conductor *orchestrator.Conductor
	Archivist orchestrator.ContextSource
	Linguist  orchestrator.DialectSource
	Stylist   orchestrator.StyleSource
	Librarian orchestrator.BookSource
	Locations *locations.Extractor

	// Source reads uploaded manuscripts. Defaults to locations.PlainText.
	Source locations.TextSource
	// MaxUploadBytes bounds multipart uploads. Defaults to locations.DefaultMaxUpload.
	MaxUploadBytes int64
	Logger         *zap.Logger
	// Version is reported by the discovery endpoint.
	Version string
}

// Server is the HTTP transport.
type Server struct {
	cfg    Config
	logger *zap.Logger
	mux    *http.ServeMux

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New validates cfg and builds the route table.
func New(cfg Config) (*Server, error) {
	switch {
	case cfg.Conductor == nil:
		return nil, errors.New("server: conductor is required")
	case cfg.Archivist == nil, cfg.Linguist == nil, cfg.Stylist == nil, cfg.Librarian == nil:
		return nil, errors.New("server: all four specialists are required")
	case cfg.Locations == nil:
		return nil, errors.New("server: location extractor is required")
	}
	if cfg.Source == nil {
		cfg.Source = locations.PlainText{}
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = locations.DefaultMaxUpload
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{cfg: cfg, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /orchestrate", s.handleOrchestrate)
	s.mux.HandleFunc("POST /search", s.handleVibeSearch)
	s.mux.HandleFunc("POST /chat", s.handleChat)
	s.mux.HandleFunc("POST /extract-from-title", s.handleExtractFromTitle)
	s.mux.HandleFunc("POST /upload-book", s.handleUploadBook)
	s.mux.HandleFunc("POST /tools/archivist/lookup", s.handleArchivist)
	s.mux.HandleFunc("POST /tools/linguist/dialect", s.handleLinguist)
	s.mux.HandleFunc("POST /tools/stylist/style", s.handleStylist)
	s.mux.HandleFunc("POST /tools/librarian/search", s.handleLibrarian)
}

// Handler returns the routed handler with CORS and request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(cors(s.mux))
}

// ListenAndServe serves on addr until ctx is canceled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server, s.listener = srv, listener
	s.mu.Unlock()

	s.logger.Info("listening", zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

// Addr returns the bound address once ListenAndServe has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// cors allows any origin, matching a browser map client served elsewhere.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()))
	})
}
