package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/whispee/internal/adapter"
	"github.com/MKhiriev/whispee/internal/client"
	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/tui"
	"github.com/MKhiriev/whispee/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "whispee: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := logger.NewClientLogger("whispee-client", "")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("create local storage: %w", err)
	}
	defer localStorage.Close()

	transport, err := adapter.DialWebsocket(ctx, cfg.Adapter, log)
	if err != nil {
		return fmt.Errorf("connect to server: %w", err)
	}

	infoAdapter, err := adapter.NewHTTPServerInfoAdapter(cfg.Adapter, log)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("create server info adapter: %w", err)
	}

	notifier := tui.NewAdapter()
	sess := session.New(transport, notifier,
		session.WithRequestTimeout(cfg.Session.RequestTimeout),
		session.WithChatListener(notifier),
		session.WithLogger(log),
	)
	services := service.NewClientServices(sess, localStorage, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	ui := tui.New(services, notifier, infoAdapter, buildInfo, log)

	app, err := client.NewApp(transport, sess, ui, log)
	if err != nil {
		_ = transport.Close()
		return fmt.Errorf("init client app: %w", err)
	}

	return app.Run(ctx)
}
