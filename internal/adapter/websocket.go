package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write when the caller has no earlier
	// deadline.
	writeWait = 10 * time.Second

	// MaxMessageSize is the largest inbound frame accepted on either end.
	MaxMessageSize = 64 << 10
)

var _ session.Transport = (*WebsocketTransport)(nil)

// WebsocketTransport carries protocol frames over one websocket connection.
// Writes are serialized; inbound frames are delivered in order from a single
// read goroutine to the one handler registered with OnMessage.
//
// Both ends use it: the client dials with [DialWebsocket], the server wraps
// an upgraded connection with [NewWebsocketTransport].
type WebsocketTransport struct {
	conn         *websocket.Conn
	logger       *logger.Logger
	pingInterval time.Duration

	writeMu sync.Mutex

	handlerMu sync.Mutex
	onMessage func(msg []byte)
	onClose   func(err error)

	startOnce sync.Once
	closeOnce sync.Once
	doneOnce  sync.Once
	closing   chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
}

// DialWebsocket connects to the websocket endpoint described by cfg. The
// dial is bounded by cfg.RequestTimeout. The returned transport does not
// read until [WebsocketTransport.Start] is called.
func DialWebsocket(ctx context.Context, cfg config.ClientAdapter, log *logger.Logger) (*WebsocketTransport, error) {
	wsURL, err := websocketURL(cfg.ServerAddress, cfg.WebsocketPath)
	if err != nil {
		return nil, err
	}

	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.RequestTimeout,
	}
	header := http.Header{"User-Agent": []string{utils.UserAgent}}

	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %s: status %d: %w", ErrDial, wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDial, wsURL, err)
	}
	log.Info().Str("func", "DialWebsocket").Str("url", wsURL).Msg("websocket connected")

	return NewWebsocketTransport(conn, cfg.PingInterval, log), nil
}

// NewWebsocketTransport wraps an established connection. A positive
// pingInterval enables keepalive pings and a read deadline of twice the
// interval.
func NewWebsocketTransport(conn *websocket.Conn, pingInterval time.Duration, log *logger.Logger) *WebsocketTransport {
	if log == nil {
		log = logger.Nop()
	}
	conn.SetReadLimit(MaxMessageSize)

	return &WebsocketTransport{
		conn:         conn,
		logger:       log,
		pingInterval: pingInterval,
		closing:      make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// OnMessage registers the inbound frame handler. Only the first registration
// takes effect.
func (t *WebsocketTransport) OnMessage(handler func(msg []byte)) {
	t.handlerMu.Lock()
	defer t.handlerMu.Unlock()

	if t.onMessage != nil {
		t.logger.Warn().Str("func", "*WebsocketTransport.OnMessage").Msg("message handler already registered")
		return
	}
	t.onMessage = handler
}

// OnClose registers the handler called once when the connection goes away.
// It receives nil after a local Close or a normal close by the peer. Only
// the first registration takes effect.
func (t *WebsocketTransport) OnClose(handler func(err error)) {
	t.handlerMu.Lock()
	defer t.handlerMu.Unlock()

	if t.onClose != nil {
		t.logger.Warn().Str("func", "*WebsocketTransport.OnClose").Msg("close handler already registered")
		return
	}
	t.onClose = handler
}

// Start begins reading frames and, if enabled, pinging the peer. Register
// the handlers first; frames read before that are dropped.
func (t *WebsocketTransport) Start() {
	t.startOnce.Do(func() {
		t.wg.Add(1)
		go t.readLoop()

		if t.pingInterval > 0 {
			t.wg.Add(1)
			go t.pingLoop()
		}
	})
}

// Send writes msg as one text frame. The write deadline is the earlier of
// ctx's deadline and the default write timeout.
func (t *WebsocketTransport) Send(ctx context.Context, msg []byte) error {
	select {
	case <-t.closing:
		return ErrTransportClosed
	case <-t.done:
		return ErrTransportClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// Done is closed once the connection is gone.
func (t *WebsocketTransport) Done() <-chan struct{} {
	return t.done
}

// Close sends a normal close frame, closes the connection and waits for the
// transport goroutines to exit.
func (t *WebsocketTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closing)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))

		err = t.conn.Close()
	})
	t.wg.Wait()
	t.finish(nil)

	return err
}

func (t *WebsocketTransport) readLoop() {
	defer t.wg.Done()

	if t.pingInterval > 0 {
		_ = t.conn.SetReadDeadline(time.Now().Add(t.pongWait()))
		t.conn.SetPongHandler(func(string) error {
			return t.conn.SetReadDeadline(time.Now().Add(t.pongWait()))
		})
	}

	for {
		_, msg, err := t.conn.ReadMessage()
		if err != nil {
			t.finish(err)
			return
		}
		if t.pingInterval > 0 {
			_ = t.conn.SetReadDeadline(time.Now().Add(t.pongWait()))
		}

		t.handlerMu.Lock()
		handler := t.onMessage
		t.handlerMu.Unlock()

		if handler == nil {
			t.logger.Debug().Str("func", "*WebsocketTransport.readLoop").Msg("no message handler, frame dropped")
			continue
		}
		handler(msg)
	}
}

func (t *WebsocketTransport) pingLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-t.closing:
			return
		case <-ticker.C:
			if err := t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				t.logger.Warn().Err(err).Str("func", "*WebsocketTransport.pingLoop").Msg("ping failed")
				_ = t.conn.Close()
				return
			}
		}
	}
}

// finish marks the transport done and reports err to the close handler once.
func (t *WebsocketTransport) finish(err error) {
	t.doneOnce.Do(func() {
		select {
		case <-t.closing:
			err = nil
		default:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
		}
		close(t.done)
		_ = t.conn.Close()

		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			t.logger.Warn().Err(err).Str("func", "*WebsocketTransport.finish").Msg("websocket closed")
		} else {
			t.logger.Info().Str("func", "*WebsocketTransport.finish").Msg("websocket closed")
		}

		t.handlerMu.Lock()
		handler := t.onClose
		t.handlerMu.Unlock()

		if handler != nil {
			handler(err)
		}
	})
}

func (t *WebsocketTransport) pongWait() time.Duration {
	return 2 * t.pingInterval
}
