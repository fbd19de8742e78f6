package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// ServerAddress is the server address, "host:port" or a full URL.
	ServerAddress string
	// WebsocketPath is the route of the server websocket endpoint.
	WebsocketPath string
	// RequestTimeout bounds plain HTTP requests and the websocket dial.
	RequestTimeout time.Duration
	// PingInterval is how often the client pings the server.
	PingInterval time.Duration
}

// ClientSession holds the session protocol settings.
type ClientSession struct {
	// RequestTimeout is how long a pending operation waits for its reply.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite path of the local session store.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains the server address and connection timeouts.
	Adapter ClientAdapter
	// Session contains session protocol settings.
	Session ClientSession
	// Storage contains local storage settings.
	Storage ClientStorage
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration. args are the command-line arguments
// without the program name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	if err = clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

// NewClientConfig maps the client-relevant fields of cfg.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			ServerAddress:  cfg.Adapter.ServerAddress,
			WebsocketPath:  cfg.Adapter.WebsocketPath,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			PingInterval:   cfg.Adapter.PingInterval,
		},
		Session: ClientSession{
			RequestTimeout: cfg.Session.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
	}
}
