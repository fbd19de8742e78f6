package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/whispee/internal/app"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/mock"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRoutedHandler(t *testing.T, mutate func(*service.Services)) *Handler {
	t.Helper()

	ctrl := gomock.NewController(t)
	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(models.NewAppBuildInfo("1.0.0", "", "")).AnyTimes()

	svcs := &service.Services{AppInfoService: appInfo, AuthService: mock.NewMockAuthService(ctrl)}
	if mutate != nil {
		mutate(svcs)
	}

	return NewHandler(svcs, testServerConfig(), logger.Nop())
}

func TestInit_Routes(t *testing.T) {
	router := newRoutedHandler(t, nil).Init()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantAllow  string
	}{
		{name: "version", method: http.MethodGet, path: "/api/version", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "version wrong method", method: http.MethodPost, path: "/api/version", wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodGet},
		{name: "websocket wrong method", method: http.MethodPost, path: "/ws", wantStatus: http.StatusMethodNotAllowed, wantAllow: http.MethodGet},
		// a plain GET without upgrade headers is refused by the upgrader
		{name: "websocket without upgrade", method: http.MethodGet, path: "/ws", wantStatus: http.StatusBadRequest},
		{name: "unknown", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
		})
	}
}

func TestInit_MetricsExposition(t *testing.T) {
	router := newRoutedHandler(t, nil).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "whispee_active_connections"))
}

func TestInit_UpgradeRateLimit(t *testing.T) {
	h := newRoutedHandler(t, nil)
	h.cfg.UpgradeRateLimit = 1
	router := h.Init()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	first := send()
	assert.Equal(t, http.StatusBadRequest, first.Code, "first attempt reaches the upgrader")

	second := send()
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, app.MsgTooManyRequests, body.Error)

	// the version endpoint is outside the limited group
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.RemoteAddr = "203.0.113.9:5000"
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
