package http

import (
	"net/http"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	buildInfo := h.services.AppInfoService.GetAppVersion(r.Context())

	if _, err := utils.WriteJSON(w, buildInfo, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("writing version response failed")
	}
}
