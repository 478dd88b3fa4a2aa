package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cnergy/webserve/internal/state"
)

type HTTPServer struct {
	Addr string

	// Root is the directory served at "/".
	Root string

	// Handler overrides the default router built from Root.
	Handler http.Handler

	// Logger receives access log lines and serve errors.
	Logger Logger

	// State tracks the NotStarted -> Serving -> Stopped lifecycle.
	State *state.Store

	mu       sync.Mutex
	srv      *http.Server
	ln       net.Listener
	closed   bool
	serveErr chan error
}

func NewHTTPServer(cfg ServerConfig) *HTTPServer {
	return &HTTPServer{
		Addr:     cfg.ListenAddr,
		Root:     cfg.Root,
		Logger:   noopLogger{},
		State:    state.NewStore(),
		serveErr: make(chan error, 1),
	}
}

// Start binds the listener and serves in the background until ctx is done
// or Stop is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}
	if s.Logger == nil {
		s.Logger = noopLogger{}
	}
	if s.State == nil {
		s.State = state.NewStore()
	}
	if s.serveErr == nil {
		s.serveErr = make(chan error, 1)
	}

	addr := s.Addr
	if addr == "" {
		addr = ":8000"
	}

	handler := s.Handler
	if handler == nil {
		handler = NewRouter(s.Root, s.Logger)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// Let "OPTIONS *" reach the router so it gets the CORS headers too.
		DisableGeneralOptionsHandler: true,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if err := s.State.MarkServing(ln.Addr().String(), s.Root); err != nil {
		_ = ln.Close()
		return err
	}
	s.srv = srv
	s.ln = ln

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.Logger.Errorf("http", "serve: %v", err)
		s.serveErr <- err
	}()

	return nil
}

// ListenAddr returns the bound address, which differs from Addr when the
// configured port is 0. It is empty before Start.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Errors delivers a serve failure that happened after Start returned.
func (s *HTTPServer) Errors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.serveErr == nil {
		s.serveErr = make(chan error, 1)
	}
	return s.serveErr
}

// Stop closes the listener and every open connection. In-flight requests
// are not drained.
func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	ln := s.ln
	s.srv = nil
	s.ln = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := s.State.MarkStopped(); err != nil {
		s.Logger.Errorf("http", "stop: %v", err)
	}
	err := srv.Close()
	// Serve may not have taken ownership of the listener yet.
	_ = ln.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
