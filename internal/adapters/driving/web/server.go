package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/logger"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// DefaultMaxUpload bounds a single selection upload.
const DefaultMaxUpload int64 = 1 << 30

// Config configures the web server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// RescaleRate caps websocket rescale commands per second per client.
	RescaleRate int

	// Decoder is passed to the page and, when Root is set, served under /decoders/.
	Decoder domain.DecoderSettings

	// MaxUpload bounds POST /api/selection bodies. Zero means DefaultMaxUpload.
	MaxUpload int64
}

// Server is the viewport HTTP server.
type Server struct {
	ports   *Ports
	cfg     Config
	hub     *Hub
	handler http.Handler

	// ctx outlives requests; background loads started by uploads use it.
	ctx context.Context
}

// NewServer creates a server with the given ports.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = DefaultMaxUpload
	}

	s := &Server{
		ports: ports,
		cfg:   cfg,
		hub:   NewHub(ports, cfg.RescaleRate),
		ctx:   context.Background(),
	}
	s.handler = metrics.Middleware(s.routes())
	return s, nil
}

// Hub returns the websocket hub, to be subscribed to scene and load events.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /app.js", s.handleApp)
	mux.Handle("GET /ws", s.hub)

	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/selection", s.handleSelection)
	mux.HandleFunc("POST /api/rescale", s.handleRescale)

	mux.HandleFunc("GET /objects/{token}", s.handleObject)
	mux.Handle("GET /decoders/", s.decoderHandler())
	mux.Handle("GET /metrics", metrics.Handler())

	return mux
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.ctx = ctx

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("viewer listening on http://%s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
