package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/whispee/internal/logger"
	"golang.org/x/sync/errgroup"
)

// App runs one client session until the user quits or the server goes away.
type App struct {
	transport Transport
	session   Runner
	ui        Runner
	logger    *logger.Logger
}

// NewApp wires an already dialled transport, the session bound to it and the
// UI that drives the session.
func NewApp(transport Transport, session, ui Runner, log *logger.Logger) (*App, error) {
	if transport == nil || session == nil || ui == nil {
		return nil, ErrIncompleteApp
	}

	return &App{
		transport: transport,
		session:   session,
		ui:        ui,
		logger:    log,
	}, nil
}

// Run starts the transport and blocks until the UI exits, ctx is done or the
// session loop fails. The transport is closed on return.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	a.transport.Start()
	a.logger.Info().Msg("client started")

	g.Go(func() error {
		if err := a.session.Run(gctx); err != nil {
			return fmt.Errorf("session: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// leaving the UI ends the session loop too
		defer cancel()
		if err := a.ui.Run(gctx); err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		return nil
	})

	err := g.Wait()

	if closeErr := a.transport.Close(); closeErr != nil {
		a.logger.Debug().Err(closeErr).Msg("close transport")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Err(err).Msg("client stopped")
		return err
	}

	a.logger.Info().Msg("client stopped")
	return nil
}
