package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// wsServer runs handler for every upgraded connection.
func wsServer(t *testing.T, handler func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func echo(conn *websocket.Conn) {
	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if err = conn.WriteMessage(typ, msg); err != nil {
			return
		}
	}
}

func dial(t *testing.T, srv *httptest.Server, ping time.Duration) *WebsocketTransport {
	t.Helper()

	tr, err := DialWebsocket(context.Background(), config.ClientAdapter{
		ServerAddress:  srv.URL,
		WebsocketPath:  "/ws",
		RequestTimeout: time.Second,
		PingInterval:   ping,
	}, logger.Nop())
	require.NoError(t, err)

	return tr
}

func TestWebsocketTransport_SendAndReceive(t *testing.T) {
	srv := wsServer(t, echo)
	tr := dial(t, srv, 0)

	received := make(chan string, 2)
	tr.OnMessage(func(msg []byte) { received <- string(msg) })
	tr.OnClose(func(error) {})
	tr.Start()

	require.NoError(t, tr.Send(context.Background(), []byte(`{"command":"login_user"}`)))
	require.NoError(t, tr.Send(context.Background(), []byte(`{"command":"register_user"}`)))

	for _, want := range []string{`{"command":"login_user"}`, `{"command":"register_user"}`} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("no echo for %s", want)
		}
	}

	require.NoError(t, tr.Close())
}

// Only the first registered handler receives frames.
func TestWebsocketTransport_SingleMessageHandler(t *testing.T) {
	srv := wsServer(t, echo)
	tr := dial(t, srv, 0)

	first := make(chan []byte, 1)
	second := make(chan []byte, 1)
	tr.OnMessage(func(msg []byte) { first <- msg })
	tr.OnMessage(func(msg []byte) { second <- msg })
	tr.Start()

	require.NoError(t, tr.Send(context.Background(), []byte("ping")))

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first handler not called")
	}
	select {
	case <-second:
		t.Fatal("second handler must not be called")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, tr.Close())
}

func TestWebsocketTransport_PeerCloseReportsOnce(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	})
	tr := dial(t, srv, 0)

	closed := make(chan error, 2)
	tr.OnClose(func(err error) { closed <- err })
	tr.Start()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close handler not called")
	}

	<-tr.Done()
	assert.ErrorIs(t, tr.Send(context.Background(), []byte("late")), ErrTransportClosed)

	require.NoError(t, tr.Close())
	assert.Empty(t, closed)
}

func TestWebsocketTransport_AbnormalCloseReportsError(t *testing.T) {
	srv := wsServer(t, func(conn *websocket.Conn) {
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "boom")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	})
	tr := dial(t, srv, 0)

	closed := make(chan error, 1)
	tr.OnClose(func(err error) { closed <- err })
	tr.Start()

	select {
	case err := <-closed:
		require.Error(t, err)
		assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr))
	case <-time.After(2 * time.Second):
		t.Fatal("close handler not called")
	}

	require.NoError(t, tr.Close())
}

func TestWebsocketTransport_LocalClose(t *testing.T) {
	srv := wsServer(t, echo)
	tr := dial(t, srv, 0)

	closed := make(chan error, 1)
	tr.OnClose(func(err error) { closed <- err })
	tr.Start()

	_ = tr.Close()

	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close handler not called")
	}
	assert.ErrorIs(t, tr.Send(context.Background(), []byte("x")), ErrTransportClosed)
}

func TestWebsocketTransport_SendHonoursContext(t *testing.T) {
	srv := wsServer(t, echo)
	tr := dial(t, srv, 0)
	tr.Start()
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, tr.Send(ctx, []byte("x")), context.Canceled)
}

func TestWebsocketTransport_Ping(t *testing.T) {
	pinged := make(chan struct{}, 1)
	srv := wsServer(t, func(conn *websocket.Conn) {
		conn.SetPingHandler(func(data string) error {
			select {
			case pinged <- struct{}{}:
			default:
			}
			return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})
		echo(conn)
	})
	tr := dial(t, srv, 20*time.Millisecond)
	tr.Start()
	defer tr.Close()

	select {
	case <-pinged:
	case <-time.After(2 * time.Second):
		t.Fatal("server was never pinged")
	}
}

func TestDialWebsocket_Errors(t *testing.T) {
	srv := wsServer(t, echo)

	_, err := DialWebsocket(context.Background(), config.ClientAdapter{
		ServerAddress:  srv.URL,
		WebsocketPath:  "/missing",
		RequestTimeout: time.Second,
	}, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDial)
	assert.True(t, strings.Contains(err.Error(), "status 404"))

	_, err = DialWebsocket(context.Background(), config.ClientAdapter{ServerAddress: ""}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidAddress)
}
