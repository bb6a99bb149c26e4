// Package proxy serves the analyze API for browser and editor integrations.
// Requests are forwarded to the analysis backend through the same client
// the TUI uses, so they share its cache and retry policy.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/colonyops/briefly/internal/core/analysis"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/pkg/profiler"
)

// IssueSource returns the backend issues for a text.
type IssueSource interface {
	Issues(ctx context.Context, text string) ([]analysis.Issue, error)
}

// Options configures a Server.
type Options struct {
	Addr        string
	CORSOrigins []string
	Profiling   bool
}

type Server struct {
	httpServer *http.Server
	listener   net.Listener
	addr       string
}

// New creates a Server answering with issues from src.
func New(src IssueSource, opts Options) *Server {
	mux := http.NewServeMux()

	h := &handlers{issues: src}
	mux.HandleFunc("POST /api/analyze", h.analyze)
	mux.HandleFunc("GET /api/health", h.health)

	if opts.Profiling {
		profiler.Register(mux)
	}

	return &Server{
		httpServer: &http.Server{
			Handler:           Chain(mux, RequestLogger(), CORS(opts.CORSOrigins)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		addr: opts.Addr,
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start listens on the configured address and serves in the background.
// It returns once the listener is up or fails to start.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.listener = listener
	s.httpServer.BaseContext = func(net.Listener) context.Context {
		return context.WithoutCancel(ctx)
	}

	l := logging.Component("proxy")
	l.Info().Str("addr", listener.Addr().String()).Msg("starting analyze proxy")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("analyze proxy failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	l := logging.Component("proxy")
	l.Info().Msg("shutting down analyze proxy")
	return s.httpServer.Shutdown(ctx)
}
