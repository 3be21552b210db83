package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type HTTPServer struct {
	Addr    string
	Handler http.Handler
	Logger  zerolog.Logger

	mu      sync.Mutex
	srv     *http.Server
	ln      net.Listener
	closed  bool
	serveCh chan error
}

func NewHTTPServer(addr string, handler http.Handler) *HTTPServer {
	return &HTTPServer{Addr: addr, Handler: handler, Logger: zerolog.Nop()}
}

// Start listens and serves in the background until ctx is done or Stop is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("web server already stopped")
	}
	if s.srv != nil {
		return nil
	}

	addr := s.Addr
	if addr == "" {
		addr = ":80"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.serveCh = make(chan error, 1)
	s.Logger.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	srv, serveCh := s.srv, s.serveCh
	go func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			serveCh <- nil
			return
		}
		s.Logger.Error().Err(err).Msg("http server failed")
		serveCh <- err
	}()
	return nil
}

// Run starts the server and blocks until it stops. It returns nil after a
// clean shutdown.
func (s *HTTPServer) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	serveCh := s.serveCh
	s.mu.Unlock()
	return <-serveCh
}

// ListenAddr reports the bound address once started.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
