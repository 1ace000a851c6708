package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/vaultscribe/internal/config"
	"github.com/MKhiriev/vaultscribe/internal/handler"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	address    string

	summaries service.SummaryService
	logger    *logger.Logger

	// listening is closed once the listener is bound; tests wait on it.
	listening chan net.Addr
}

func NewServer(handlers *handler.Handlers, services *service.Services, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	s := &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		address:    cfg.HTTPAddress,
		logger:     logger,
		listening:  make(chan net.Addr, 1),
	}
	if services != nil {
		s.summaries = services.SummaryService
	}

	return s, nil
}

// RunServer starts the summary workers and the HTTP server and blocks until
// ctx is done or SIGTERM, SIGINT or SIGQUIT arrives.
func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	l, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.address, err)
	}
	s.listening <- l.Addr()

	if s.summaries != nil {
		s.summaries.Start(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", l.Addr().String()).Msg("Launching HTTP server")
		serveErr <- s.httpServer.Serve(l)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(err, s.Shutdown(shutdownCtx))
	if err == nil {
		s.logger.Info().Msg("server Shutdown gracefully")
	}
	return err
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	// workers stop after the listener so in-flight submits still land
	if s.summaries != nil {
		s.summaries.Stop()
	}

	return err
}
