// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRouter() *chi.Mux {
	router := chi.NewRouter()

	ok := func(status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(status) }
	}
	router.Get("/api/items", ok(http.StatusOK))
	router.Post("/api/items", ok(http.StatusCreated))
	router.Delete("/api/resource", ok(http.StatusNoContent))

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

func TestCheckHTTPMethod(t *testing.T) {
	router := buildRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantAllow  string
	}{
		{name: "registered GET", method: http.MethodGet, path: "/api/items", wantStatus: http.StatusOK},
		{name: "registered POST", method: http.MethodPost, path: "/api/items", wantStatus: http.StatusCreated},
		{name: "registered DELETE", method: http.MethodDelete, path: "/api/resource", wantStatus: http.StatusNoContent},
		{name: "wrong method lists both", method: http.MethodPut, path: "/api/items", wantStatus: http.StatusMethodNotAllowed, wantAllow: "GET, POST"},
		{name: "wrong method single", method: http.MethodGet, path: "/api/resource", wantStatus: http.StatusMethodNotAllowed, wantAllow: "DELETE"},
		{name: "unknown path", method: http.MethodGet, path: "/api/nope", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
		})
	}
}

func TestCheckHTTPMethod_WritesJSONError(t *testing.T) {
	router := buildRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/items", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, http.StatusText(http.StatusMethodNotAllowed), body.Error)
}

func TestCheckHTTPMethod_DirectCallUnknownPath(t *testing.T) {
	handler := CheckHTTPMethod(chi.NewRouter())

	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Header().Get("Allow"))
}
