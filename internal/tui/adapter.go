package tui

import (
	"context"
	"sync"

	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/models"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	_ session.Notifier     = (*Adapter)(nil)
	_ session.ChatListener = (*Adapter)(nil)
)

// mailbox is an unbounded FIFO with a blocking receive.
type mailbox[T any] struct {
	mu     sync.Mutex
	queue  []T
	signal chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{signal: make(chan struct{}, 1)}
}

func (b *mailbox[T]) push(v T) {
	b.mu.Lock()
	b.queue = append(b.queue, v)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

func (b *mailbox[T]) next(ctx context.Context) (v T, ok bool) {
	var zero T
	for {
		b.mu.Lock()
		if len(b.queue) > 0 {
			v = b.queue[0]
			b.queue[0] = zero
			b.queue = b.queue[1:]
			b.mu.Unlock()
			return v, true
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, false
		case <-b.signal:
		}
	}
}

// Adapter queues session states and pushed chat changes for the UI. Neither
// Notify nor OnChatEvent blocks, so the session loop is not held up by
// rendering.
type Adapter struct {
	states *mailbox[models.SessionState]
	chats  *mailbox[models.ChatEvent]
}

func NewAdapter() *Adapter {
	return &Adapter{
		states: newMailbox[models.SessionState](),
		chats:  newMailbox[models.ChatEvent](),
	}
}

// Notify implements [session.Notifier].
func (a *Adapter) Notify(state models.SessionState) {
	a.states.push(state)
}

// OnChatEvent implements [session.ChatListener].
func (a *Adapter) OnChatEvent(event models.ChatEvent) {
	a.chats.push(event)
}

// Next returns the oldest undelivered state, waiting for one if needed. ok
// is false when ctx ends first.
func (a *Adapter) Next(ctx context.Context) (state models.SessionState, ok bool) {
	return a.states.next(ctx)
}

// Listen returns a command delivering the next state as a [StateMsg]. The
// program re-arms it after every delivery.
func (a *Adapter) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		state, ok := a.Next(ctx)
		if !ok {
			return nil
		}
		return StateMsg{State: state, View: ViewStateFor(state)}
	}
}

// ListenChat is the [Listen] of pushed chat changes; it delivers a
// [ChatEventMsg].
func (a *Adapter) ListenChat(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		event, ok := a.chats.next(ctx)
		if !ok {
			return nil
		}
		return ChatEventMsg{Event: event}
	}
}
