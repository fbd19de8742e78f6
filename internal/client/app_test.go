package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeTransport struct {
	started atomic.Bool
	closed  atomic.Int32
}

func (f *fakeTransport) Start()       { f.started.Store(true) }
func (f *fakeTransport) Close() error { f.closed.Add(1); return nil }

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

// blockUntilDone stands in for a component that runs until cancelled.
func blockUntilDone(stopped *atomic.Bool) runnerFunc {
	return func(ctx context.Context) error {
		<-ctx.Done()
		stopped.Store(true)
		return nil
	}
}

func TestNewApp_RequiresComponents(t *testing.T) {
	noop := runnerFunc(func(context.Context) error { return nil })

	_, err := NewApp(nil, noop, noop, logger.Nop())
	assert.ErrorIs(t, err, ErrIncompleteApp)

	_, err = NewApp(&fakeTransport{}, nil, noop, logger.Nop())
	assert.ErrorIs(t, err, ErrIncompleteApp)

	app, err := NewApp(&fakeTransport{}, noop, noop, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, app)
}

func TestRun_UIExitStopsSession(t *testing.T) {
	transport := &fakeTransport{}
	var sessionStopped atomic.Bool

	ui := runnerFunc(func(context.Context) error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})

	app, err := NewApp(transport, blockUntilDone(&sessionStopped), ui, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))
	assert.True(t, transport.started.Load())
	assert.True(t, sessionStopped.Load())
	assert.EqualValues(t, 1, transport.closed.Load())
}

func TestRun_DisconnectStopsUI(t *testing.T) {
	transport := &fakeTransport{}
	var uiStopped atomic.Bool

	sess := runnerFunc(func(context.Context) error {
		return session.ErrDisconnected
	})

	app, err := NewApp(transport, sess, blockUntilDone(&uiStopped), logger.Nop())
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.ErrorIs(t, err, session.ErrDisconnected)
	assert.True(t, uiStopped.Load())
	assert.EqualValues(t, 1, transport.closed.Load())
}

func TestRun_ContextCancel(t *testing.T) {
	transport := &fakeTransport{}
	var sessionStopped, uiStopped atomic.Bool

	app, err := NewApp(transport, blockUntilDone(&sessionStopped), blockUntilDone(&uiStopped), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx))
	assert.True(t, sessionStopped.Load())
	assert.True(t, uiStopped.Load())
}

func TestRun_UIError(t *testing.T) {
	var sessionStopped atomic.Bool
	boom := errors.New("terminal gone")

	ui := runnerFunc(func(context.Context) error { return boom })

	app, err := NewApp(&fakeTransport{}, blockUntilDone(&sessionStopped), ui, logger.Nop())
	require.NoError(t, err)

	err = app.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, sessionStopped.Load())
}
