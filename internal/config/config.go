// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the server. Each binary reads only the groups it needs.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds server-side token and versioning settings.
	App App `envPrefix:"APP_"`

	// Storage holds the database and session store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listener, websocket and rate limiting settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's connection settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Session holds the client session protocol settings.
	Session Session `envPrefix:"SESSION_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`
}

// App holds server application settings.
type App struct {
	// TokenSignKey is the secret used to sign session tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued session tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionTTL is how long an issued session stays valid.
	// Env: APP_SESSION_TTL
	SessionTTL time.Duration `env:"SESSION_TTL"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the session store settings. Sessions are kept in memory
	// when Address is empty.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the driver by its form: "postgres://..." opens PostgreSQL,
	// anything else is treated as a SQLite path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for the redis session store.
type Redis struct {
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// Server holds network, timeout and limiting settings of the server.
type Server struct {
	// HTTPAddress is the listen address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// WebsocketPath is the route of the websocket endpoint.
	// Env: SERVER_WS_PATH
	WebsocketPath string `env:"WS_PATH"`

	// RequestTimeout bounds the handling of a single command.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// UpgradeRateLimit is the number of websocket upgrades allowed per IP
	// per minute.
	// Env: SERVER_UPGRADE_RATE_LIMIT
	UpgradeRateLimit int `env:"UPGRADE_RATE_LIMIT"`

	// CommandRate and CommandBurst limit commands per connection per second.
	// Env: SERVER_COMMAND_RATE, SERVER_COMMAND_BURST
	CommandRate  float64 `env:"COMMAND_RATE"`
	CommandBurst int     `env:"COMMAND_BURST"`
}

// Adapter holds the client's outbound connection settings.
type Adapter struct {
	// ServerAddress is the server address, "host:port" or a full URL.
	// Env: ADAPTER_ADDRESS
	ServerAddress string `env:"ADDRESS"`

	// WebsocketPath is the route of the server websocket endpoint.
	// Env: ADAPTER_WS_PATH
	WebsocketPath string `env:"WS_PATH"`

	// RequestTimeout bounds plain HTTP requests and the websocket dial.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PingInterval is how often the client pings the server.
	// Env: ADAPTER_PING_INTERVAL
	PingInterval time.Duration `env:"PING_INTERVAL"`
}

// Session holds the client session protocol settings.
type Session struct {
	// RequestTimeout is how long a login, register, resume or lookup waits
	// for the server reply.
	// Env: SESSION_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SessionCleanupInterval is how often expired sessions are purged.
	// Env: WORKERS_SESSION_CLEANUP_INTERVAL
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL"`
}

// defaults returns the values used for fields that no source sets.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer: "whispee",
			SessionTTL:  24 * time.Hour,
		},
		Storage: Storage{
			DB: DB{DSN: "whispee.db"},
		},
		Server: Server{
			HTTPAddress:      "localhost:8080",
			WebsocketPath:    "/ws",
			RequestTimeout:   10 * time.Second,
			ShutdownTimeout:  5 * time.Second,
			UpgradeRateLimit: 30,
			CommandRate:      5,
			CommandBurst:     10,
		},
		Adapter: Adapter{
			ServerAddress:  "localhost:8080",
			WebsocketPath:  "/ws",
			RequestTimeout: 10 * time.Second,
			PingInterval:   30 * time.Second,
		},
		Session: Session{
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			SessionCleanupInterval: time.Minute,
		},
	}
}

// GetStructuredConfig loads and merges the configuration from the
// environment, the command-line arguments args, the optional config file and
// the defaults.
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		withDefaults().
		build()
}
