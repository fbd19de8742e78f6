package service

import (
	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/crypto"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

// Services aggregates the server services.
type Services struct {
	AuthService    AuthService
	ChatService    ChatService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.App, buildInfo models.AppBuildInfo, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(
			storages.Users,
			storages.Sessions,
			crypto.NewBcryptHasher(0),
			validators.NewCredentialsValidator(),
			cfg,
			logger,
		),
		ChatService:    NewChatService(storages.Chats, validators.NewChatValidator(), logger),
		AppInfoService: NewAppInfoService(buildInfo, logger),
	}
}
