package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/models"
)

type httpServerInfoAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPServerInfoAdapter constructs the HTTP implementation of
// [ServerInfoAdapter] for the server at adapterCfg.ServerAddress.
//
// Returns an error if the address is empty or cannot be parsed as a URL.
func NewHTTPServerInfoAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerInfoAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server address: %w", err)
	}

	return &httpServerInfoAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: logger,
	}, nil
}

// Version implements [ServerInfoAdapter].
func (h *httpServerInfoAdapter) Version(ctx context.Context) (models.AppBuildInfo, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/api/version")
	if err != nil {
		return models.AppBuildInfo{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Warn().Err(err).Str("func", "*httpServerInfoAdapter.Version").Msg("server returned an error")
		return models.AppBuildInfo{}, err
	}

	var info models.AppBuildInfo
	if err = json.Unmarshal(resp.Body(), &info); err != nil {
		return models.AppBuildInfo{}, fmt.Errorf("decode version response: %w", err)
	}

	return info, nil
}
