// Package handler builds the transport handlers of the server.
package handler

import (
	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/handler/http"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}
	if services == nil || services.AuthService == nil {
		return nil, errNoAuthService
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
