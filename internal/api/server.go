package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/world"

	"github.com/go-chi/chi/v5"
)

// ServerOptions configures NewServer.
type ServerOptions struct {
	EventLog        EventJournal
	RateLimitConfig *RateLimitConfig
	CORSOrigins     []string
	Logger          *slog.Logger
}

// Server is the HTTP API plus the WebSocket hub.
//
// NewServer starts nothing. Start opens the listener and the snapshot loop,
// so tests can use Router() against a bare engine.
type Server struct {
	engine *world.Engine
	router *chi.Mux
	hub    *WebSocketHub
	logger *slog.Logger

	http   *http.Server
	cancel context.CancelFunc
	unsub  func()
}

// NewServer builds the router and hub around engine.
func NewServer(engine *world.Engine, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		hub:    NewWebSocketHub(logger),
		logger: logger,
	}
	s.router = NewRouter(RouterConfig{
		Engine:          engine,
		EventLog:        opts.EventLog,
		RateLimitConfig: opts.RateLimitConfig,
		CORSOrigins:     opts.CORSOrigins,
	})
	s.router.Get("/ws", s.hub.HandleWebSocket)
	return s
}

// Router returns the handler for httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the WebSocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.hub
}

// Start forwards bus events to WebSocket clients, begins snapshot
// broadcasts and serves addr. It blocks until Shutdown; the returned
// error is nil after a clean shutdown.
func (s *Server) Start(addr string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.unsub = s.engine.Bus().Subscribe(s.hub.ForwardEvent)
	go s.hub.RunSnapshots(ctx, func() interface{} { return s.engine.Snapshot() })

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("api server starting", "addr", addr)

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener, the snapshot loop and every WebSocket client.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.unsub != nil {
		s.unsub()
	}
	s.hub.Close()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
