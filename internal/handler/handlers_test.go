package handler

import (
	"testing"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/mock"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	svcs := &service.Services{AuthService: mock.NewMockAuthService(ctrl)}

	tests := []struct {
		name     string
		services *service.Services
		cfg      config.Server
		wantErr  error
	}{
		{name: "http address set", services: svcs, cfg: config.Server{HTTPAddress: ":8080", WebsocketPath: "/ws"}},
		{name: "no address", services: svcs, cfg: config.Server{}, wantErr: errNoHandlersAreCreated},
		{name: "nil services", services: nil, cfg: config.Server{HTTPAddress: ":8080"}, wantErr: errNoAuthService},
		{name: "no auth service", services: &service.Services{}, cfg: config.Server{HTTPAddress: ":8080"}, wantErr: errNoAuthService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandlers(tt.services, tt.cfg, logger.Nop())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, h)
			assert.NotNil(t, h.HTTP)
		})
	}
}
