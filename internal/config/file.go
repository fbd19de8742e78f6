// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk layout of a config file. The same keys are used
// for JSON and YAML.
type FileConfig struct {
	App struct {
		TokenSignKey string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer  string   `json:"token_issuer" yaml:"token_issuer"`
		SessionTTL   Duration `json:"session_ttl" yaml:"session_ttl"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"db,omitempty" yaml:"db,omitempty"`

		Redis struct {
			Address  string `json:"address" yaml:"address"`
			Password string `json:"password" yaml:"password"`
			DB       int    `json:"db" yaml:"db"`
		} `json:"redis,omitempty" yaml:"redis,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Server struct {
		HTTPAddress      string   `json:"http_address" yaml:"http_address"`
		WebsocketPath    string   `json:"ws_path" yaml:"ws_path"`
		RequestTimeout   Duration `json:"request_timeout" yaml:"request_timeout"`
		ShutdownTimeout  Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
		UpgradeRateLimit int      `json:"upgrade_rate_limit" yaml:"upgrade_rate_limit"`
		CommandRate      float64  `json:"command_rate" yaml:"command_rate"`
		CommandBurst     int      `json:"command_burst" yaml:"command_burst"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Adapter struct {
		ServerAddress  string   `json:"server_address" yaml:"server_address"`
		WebsocketPath  string   `json:"ws_path" yaml:"ws_path"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		PingInterval   Duration `json:"ping_interval" yaml:"ping_interval"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Session struct {
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"session,omitempty" yaml:"session,omitempty"`

	Workers struct {
		SessionCleanupInterval Duration `json:"session_cleanup_interval" yaml:"session_cleanup_interval"`
	} `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// parseFile reads a JSON or YAML config file. The format is picked by the
// file extension; files without one are read as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	case ".json", "":
		if err = json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedConfigFile, ext)
	}

	return fileCfg.toStructured(), nil
}

func (f *FileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey: f.App.TokenSignKey,
			TokenIssuer:  f.App.TokenIssuer,
			SessionTTL:   time.Duration(f.App.SessionTTL),
		},
		Storage: Storage{
			DB: DB{DSN: f.Storage.DB.DSN},
			Redis: Redis{
				Address:  f.Storage.Redis.Address,
				Password: f.Storage.Redis.Password,
				DB:       f.Storage.Redis.DB,
			},
		},
		Server: Server{
			HTTPAddress:      f.Server.HTTPAddress,
			WebsocketPath:    f.Server.WebsocketPath,
			RequestTimeout:   time.Duration(f.Server.RequestTimeout),
			ShutdownTimeout:  time.Duration(f.Server.ShutdownTimeout),
			UpgradeRateLimit: f.Server.UpgradeRateLimit,
			CommandRate:      f.Server.CommandRate,
			CommandBurst:     f.Server.CommandBurst,
		},
		Adapter: Adapter{
			ServerAddress:  f.Adapter.ServerAddress,
			WebsocketPath:  f.Adapter.WebsocketPath,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
			PingInterval:   time.Duration(f.Adapter.PingInterval),
		},
		Session: Session{
			RequestTimeout: time.Duration(f.Session.RequestTimeout),
		},
		Workers: Workers{
			SessionCleanupInterval: time.Duration(f.Workers.SessionCleanupInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML. Plain numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}

	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
