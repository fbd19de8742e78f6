package service

import (
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/validators"
)

// ClientServices aggregates the client services.
type ClientServices struct {
	AuthService ClientAuthService
	ChatService ClientChatService
}

func NewClientServices(sess ClientSession, localStore *store.ClientStorages, logger *logger.Logger) *ClientServices {
	return &ClientServices{
		AuthService: NewClientAuthService(sess, localStore.LocalSessions, validators.NewCredentialsValidator(), logger),
		ChatService: NewClientChatService(sess, validators.NewChatValidator(), logger),
	}
}
