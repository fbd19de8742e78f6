package http

import (
	"net/http"
	"sync"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/gorilla/websocket"
)

// Handler serves the server routes and owns the open websocket connections.
type Handler struct {
	services *service.Services
	cfg      config.Server
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[string]*connection
	closed bool

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// the terminal client sends no Origin header
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:  make(map[string]*connection),
		logger: logger,
	}
}

// CloseConnections closes every open websocket connection and refuses new
// ones. It is registered as a shutdown hook of the HTTP server, which does
// not track hijacked connections itself.
func (h *Handler) CloseConnections() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.stop()
	}

	h.logger.Info().Int("connections", len(conns)).Msg("websocket connections closed")
}

// track registers c. It reports false once CloseConnections was called.
func (h *Handler) track(c *connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.conns[c.id] = c
	return true
}

func (h *Handler) untrack(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c.id)
}

// connectionCount returns the number of tracked connections.
func (h *Handler) connectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.conns)
}
