package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrymomot/activeform/pkg/logger"
)

// ShutdownHook runs after the server stopped accepting requests. ctx
// carries the remaining shutdown deadline.
type ShutdownHook func(ctx context.Context) error

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithListener serves on ln instead of listening on Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) { s.ln = ln }
}

// WithShutdownHook registers h. Hooks run in registration order.
func WithShutdownHook(h ShutdownHook) Option {
	if h == nil {
		panic("WithShutdownHook: nil hook")
	}
	return func(s *Server) { s.hooks = append(s.hooks, h) }
}

// Server runs an http.Server until its context ends, then drains it.
type Server struct {
	cfg   Config
	log   *slog.Logger
	ln    net.Listener
	hooks []ShutdownHook

	mu      sync.Mutex
	running bool
	addr    net.Addr
}

// New returns a Server for cfg.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{cfg: cfg.withDefaults(), log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("httpserver"))
	return s
}

// Addr returns the bound address once Run is listening, nil before.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves handler until ctx is done and then shuts down gracefully
// within Config.ShutdownTimeout. Listen failures are wrapped with ErrStart,
// drain and hook failures with ErrShutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	ln := s.ln
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", s.cfg.Addr); err != nil {
			return errors.Join(ErrStart, err)
		}
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	return s.shutdown(srv, errCh)
}

func (s *Server) shutdown(srv *http.Server, errCh <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, err)
	}
	for _, h := range s.hooks {
		if err := h(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		err := errors.Join(append([]error{ErrShutdown}, errs...)...)
		s.log.Error("http server shutdown failed", logger.Error(err))
		return err
	}
	s.log.Info("http server stopped")
	return nil
}
