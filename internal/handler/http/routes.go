package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/whispee/internal/app"
	"github.com/MKhiriev/whispee/internal/metrics"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Group(func(r chi.Router) {
		if h.cfg.UpgradeRateLimit > 0 {
			r.Use(httprate.Limit(
				h.cfg.UpgradeRateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(upgradeLimited),
			))
		}
		r.Get(h.cfg.WebsocketPath, h.serveWebsocket)
	})

	router.Get("/api/version", h.getServerVersion)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func upgradeLimited(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimited("upgrade")
	utils.WriteError(w, app.MsgTooManyRequests, http.StatusTooManyRequests)
}
