package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/handler"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/workers"
	"golang.org/x/sync/errgroup"
)

type server struct {
	httpServer *httpServer
	workers    *workers.Workers
	logger     *logger.Logger
}

// NewServer builds the server from the transport handlers and the
// background workers. bg may be nil.
func NewServer(handlers *handler.Handlers, bg *workers.Workers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil {
		return nil, errNoHTTPHandler
	}
	if bg == nil {
		bg = workers.New()
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP, cfg, logger),
		workers:    bg,
		logger:     logger,
	}, nil
}

func (s *server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	return s.run(ctx, s.httpServer.RunServer)
}

// run drives serve, the workers and the shutdown watcher in one group.
func (s *server) run(ctx context.Context, serve func() error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Msg("launching HTTP server")
		return serve()
	})
	g.Go(func() error {
		return s.workers.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.httpServer.Shutdown()
	})

	if err := g.Wait(); err != nil {
		s.logger.Err(err).Msg("server stopped with error")
		return err
	}

	s.logger.Info().Msg("server shutdown gracefully")
	return nil
}
