package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/protocol"
	"github.com/MKhiriev/whispee/models"
)

// Failure reasons produced by the client itself. Server reasons are passed
// through verbatim.
const (
	ReasonTimeout        = "timeout"
	ReasonCancelled      = "cancelled"
	ReasonSendFailed     = "send failed"
	ReasonLoginFailed    = "login failed"
	ReasonRegisterFailed = "register failed"
	ReasonResumeFailed   = "session expired"
	ReasonLookupFailed   = "lookup failed"
	ReasonChatFailed     = "chat request failed"
	ReasonMalformedReply = "malformed reply"
)

// DefaultRequestTimeout is used when no timeout option is given.
const DefaultRequestTimeout = 15 * time.Second

const opsBuffer = 64

// Option configures a [Session].
type Option func(*Session)

// WithRequestTimeout sets how long a submitted operation waits for its reply.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithChatListener sets the receiver of changes pushed for the opened chat.
func WithChatListener(l ChatListener) Option {
	return func(s *Session) {
		if l != nil {
			s.chats = l
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is the client authentication state machine bound to one
// transport.
type Session struct {
	transport Transport
	notifier  Notifier
	chats     ChatListener
	logger    *logger.Logger
	timeout   time.Duration

	// identity holds login/register/resume, requests holds every other kind.
	identity *Registry
	requests *Registry
	state    models.SessionState

	// openedChat is the chat whose pushed changes reach the listener.
	openedChat int64

	snapshotMu sync.RWMutex
	snapshot   models.SessionState

	ops     chan func()
	done    chan struct{}
	running atomic.Bool

	disconnected bool
	closeErr     error
}

// New creates an anonymous session and registers its inbound and close
// handlers on transport. Nothing is processed until [Session.Run] is started.
func New(transport Transport, notifier Notifier, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		notifier:  notifier,
		logger:    logger.Nop(),
		timeout:   DefaultRequestTimeout,
		identity:  NewRegistry(),
		requests:  NewRegistry(),
		ops:       make(chan func(), opsBuffer),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	transport.OnMessage(func(msg []byte) {
		s.post(func() { s.handleMessage(msg) })
	})
	transport.OnClose(func(err error) {
		s.post(func() {
			s.disconnected = true
			s.closeErr = err
		})
	})

	return s
}

// Run processes session events until ctx is done or the transport closes.
// On exit every waiting operation is cancelled. It returns nil when ctx ends
// and an error wrapping [ErrDisconnected] when the transport goes away.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.teardown()
			return nil
		case fn := <-s.ops:
			fn()
			if s.disconnected {
				s.teardown()
				if s.closeErr != nil {
					return fmt.Errorf("%w: %w", ErrDisconnected, s.closeErr)
				}
				return ErrDisconnected
			}
		}
	}
}

// Done is closed when Run has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// State returns the latest state snapshot. It is safe to call from any
// goroutine.
func (s *Session) State() models.SessionState {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()

	return s.snapshot
}

// Login submits a login_user request.
func (s *Session) Login(ctx context.Context, creds models.LoginCredentials) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewLoginCommand(creds))
}

// Register submits a register_user request.
func (s *Session) Register(ctx context.Context, creds models.RegisterCredentials) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewRegisterCommand(creds))
}

// Resume submits a check_session request for a session id issued earlier.
func (s *Session) Resume(ctx context.Context, sessionID string) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewCheckSessionCommand(sessionID))
}

// Lookup submits a check_identifier request. It never changes the phase;
// the answer is read from the returned operation once it is done.
func (s *Session) Lookup(ctx context.Context, identifier string) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewCheckIdentifierCommand(identifier))
}

// LoadChats submits a load_chats request. It needs an authenticated
// session.
func (s *Session) LoadChats(ctx context.Context) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewLoadChatsCommand())
}

// OpenChat submits a load_chat request. Once it succeeds, changes of that
// chat pushed by the server are handed to the chat listener.
func (s *Session) OpenChat(ctx context.Context, chatID int64) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewLoadChatCommand(chatID))
}

// SendMessage submits a send_chat_message request.
func (s *Session) SendMessage(ctx context.Context, chatID int64, content string) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewSendMessageCommand(models.OutgoingMessage{ChatID: chatID, Content: content}))
}

// DeleteMessage submits a delete_chat_message request.
func (s *Session) DeleteMessage(ctx context.Context, messageID int64) (*PendingOperation, error) {
	return s.submit(ctx, protocol.NewDeleteMessageCommand(messageID))
}

// Acknowledge clears a Failed phase back to Anonymous. It is a no-op in any
// other phase.
func (s *Session) Acknowledge(ctx context.Context) error {
	return s.call(ctx, func() {
		if s.state.Phase == models.PhaseFailed {
			s.setState(models.SessionState{Phase: models.PhaseAnonymous})
		}
	})
}

// Logout tells the server to drop the session and returns to Anonymous. The
// logout_user frame is fire-and-forget; a send error is only logged.
func (s *Session) Logout(ctx context.Context) error {
	var err error
	callErr := s.call(ctx, func() {
		if s.state.Phase != models.PhaseAuthenticated {
			err = ErrNotAuthenticated
			return
		}

		if payload, encErr := protocol.EncodeCommand(protocol.NewLogoutCommand(s.state.SessionID)); encErr != nil {
			s.logger.Err(encErr).Msg("encode logout")
		} else if sendErr := s.transport.Send(ctx, payload); sendErr != nil {
			s.logger.Warn().Err(sendErr).Msg("send logout")
		}

		s.cancelChats()
		s.setState(models.SessionState{Phase: models.PhaseAnonymous})
	})
	if callErr != nil {
		return callErr
	}

	return err
}

func (s *Session) submit(ctx context.Context, cmd protocol.Command) (*PendingOperation, error) {
	var (
		op  *PendingOperation
		err error
	)
	callErr := s.call(ctx, func() {
		// the caller may have given up while the task was queued
		if err = ctx.Err(); err != nil {
			return
		}
		op, err = s.open(ctx, cmd)
	})
	if callErr != nil {
		return nil, callErr
	}

	return op, err
}

// open runs on the session goroutine.
func (s *Session) open(ctx context.Context, cmd protocol.Command) (*PendingOperation, error) {
	kind, ok := cmd.Kind.Operation()
	if !ok {
		return nil, &protocol.EncodingError{Message: cmd.Kind.String(), Err: protocol.ErrUnknownType}
	}

	if kind.IsIdentity() {
		switch s.state.Phase {
		case models.PhaseAuthenticated:
			return nil, ErrAlreadyAuthenticated
		case models.PhaseSubmitting:
			return nil, ErrBusy
		}
	}
	if kind.IsChat() && s.state.Phase != models.PhaseAuthenticated {
		return nil, ErrNotAuthenticated
	}

	reg := s.registryFor(kind)
	op, err := reg.Submit(kind)
	if err != nil {
		return nil, err
	}

	payload, err := protocol.EncodeCommand(cmd.WithID(op.ID))
	if err != nil {
		reg.Resolve(kind, Outcome{Status: OutcomeFailed, Reason: err.Error()})
		return nil, err
	}

	id := op.ID
	timer := time.AfterFunc(s.timeout, func() {
		s.post(func() { s.expire(kind, id) })
	})
	op.stopTimer = timer.Stop

	if kind.IsIdentity() {
		s.setState(models.SessionState{Phase: models.PhaseSubmitting, Kind: kind})
	}

	if err = s.transport.Send(ctx, payload); err != nil {
		s.logger.Warn().Err(err).Str("op", kind.String()).Str("op_id", id).Msg("send request")
		s.finish(reg, kind, Outcome{Status: OutcomeFailed, Reason: ReasonSendFailed})
		return nil, fmt.Errorf("%w: %w", ErrSend, err)
	}
	s.logger.Debug().Str("op", kind.String()).Str("op_id", id).Msg("request sent")

	return op, nil
}

func (s *Session) handleMessage(msg []byte) {
	event, err := protocol.DecodeEvent(msg)
	if err != nil {
		s.handleDecodeError(err)
		return
	}

	if event.Type.IsPushed() {
		s.handlePushed(event)
		return
	}

	kind, _ := event.Type.Operation()
	reg := s.registryFor(kind)

	op, ok := reg.Pending(kind)
	if !ok {
		s.logger.Debug().Str("type", event.Type.String()).Msg("dropping unsolicited reply")
		return
	}
	if event.ID != "" && event.ID != op.ID {
		s.logger.Debug().
			Str("type", event.Type.String()).
			Str("op_id", op.ID).
			Str("reply_id", event.ID).
			Msg("dropping stale reply")
		return
	}

	if kind == models.OperationOpenChat && event.Result.Success && event.Result.Chat != nil {
		s.openedChat = event.Result.Chat.ChatID
	}
	s.finish(reg, kind, outcomeOf(kind, event.Result))
}

// handleDecodeError drops a frame that could not be decoded. A reply of a
// known type carrying the id of the waiting operation fails that operation
// right away instead of leaving it to time out.
func (s *Session) handleDecodeError(err error) {
	var decodeErr *protocol.DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Recognised() && decodeErr.ID != "" {
		if eventType, ok := protocol.ParseEventType(decodeErr.Discriminator); ok {
			if kind, ok := eventType.Operation(); ok {
				reg := s.registryFor(kind)
				if op, ok := reg.Pending(kind); ok && op.ID == decodeErr.ID {
					s.logger.Warn().Err(err).Str("op", kind.String()).Str("op_id", op.ID).Msg("malformed reply")
					s.finish(reg, kind, Outcome{Status: OutcomeFailed, Reason: ReasonMalformedReply})
					return
				}
			}
		}
	}

	if errors.Is(err, protocol.ErrUnknownType) {
		s.logger.Debug().Err(err).Msg("ignoring unknown frame")
	} else {
		s.logger.Warn().Err(err).Msg("dropping malformed frame")
	}
}

// handlePushed hands a change of the opened chat to the chat listener.
func (s *Session) handlePushed(event protocol.Event) {
	if s.state.Phase != models.PhaseAuthenticated || s.chats == nil {
		return
	}
	if s.openedChat == 0 || event.Result.ChatID != s.openedChat {
		s.logger.Debug().
			Str("type", event.Type.String()).
			Int64("chat_id", event.Result.ChatID).
			Msg("dropping change of another chat")
		return
	}

	change := models.ChatEvent{ChatID: event.Result.ChatID, MessageID: event.Result.MessageID}
	switch event.Type {
	case protocol.EventMessageSent:
		change.Kind = models.ChatMessageSent
		change.Message = event.Result.Message
	case protocol.EventMessageDeleted:
		change.Kind = models.ChatMessageDeleted
	}
	s.chats.OnChatEvent(change)
}

// cancelChats ends the chat requests of a user who is leaving.
func (s *Session) cancelChats() {
	for _, kind := range []models.OperationKind{
		models.OperationLoadChats,
		models.OperationOpenChat,
		models.OperationSendMessage,
		models.OperationDeleteMessage,
	} {
		s.requests.Cancel(kind)
	}
	s.openedChat = 0
}

func (s *Session) expire(kind models.OperationKind, id string) {
	if !s.registryFor(kind).Timeout(kind, id) {
		return
	}
	s.logger.Info().Str("op", kind.String()).Str("op_id", id).Msg("request timed out")

	if kind.IsIdentity() {
		s.apply(kind, Outcome{Status: OutcomeTimeout, Reason: ReasonTimeout})
	}
}

// finish resolves the waiting operation of kind and applies the outcome to
// the phase.
func (s *Session) finish(reg *Registry, kind models.OperationKind, outcome Outcome) {
	if !reg.Resolve(kind, outcome) {
		return
	}
	if kind.IsIdentity() {
		s.apply(kind, outcome)
	}
}

func (s *Session) apply(kind models.OperationKind, outcome Outcome) {
	if s.state.Phase != models.PhaseSubmitting || s.state.Kind != kind {
		return
	}

	if outcome.Status == OutcomeSucceeded {
		s.setState(models.SessionState{
			Phase:     models.PhaseAuthenticated,
			Kind:      kind,
			User:      outcome.User,
			SessionID: outcome.SessionID,
		})
		return
	}

	s.setState(models.SessionState{Phase: models.PhaseFailed, Kind: kind, Reason: outcome.Reason})
}

func (s *Session) teardown() {
	s.identity.CancelAll()
	s.requests.CancelAll()
	s.openedChat = 0

	switch s.state.Phase {
	case models.PhaseSubmitting:
		s.setState(models.SessionState{Phase: models.PhaseFailed, Kind: s.state.Kind, Reason: ReasonCancelled})
	case models.PhaseAuthenticated:
		s.setState(models.SessionState{Phase: models.PhaseAnonymous})
	}
}

func (s *Session) setState(state models.SessionState) {
	s.state = state

	s.snapshotMu.Lock()
	s.snapshot = state
	s.snapshotMu.Unlock()

	s.logger.Debug().
		Str("phase", state.Phase.String()).
		Str("op", state.Kind.String()).
		Msg("session state changed")

	s.notifier.Notify(state)
}

func (s *Session) registryFor(kind models.OperationKind) *Registry {
	if kind.IsIdentity() {
		return s.identity
	}
	return s.requests
}

// post queues fn for the session goroutine. It reports false once Run has
// exited.
func (s *Session) post(fn func()) bool {
	select {
	case s.ops <- fn:
		return true
	case <-s.done:
		return false
	}
}

// call runs fn on the session goroutine and waits for it to finish. A task
// still queued when ctx ends or Run exits is withdrawn and fn never runs;
// once fn has started, call waits for it.
func (s *Session) call(ctx context.Context, fn func()) error {
	var claimed atomic.Bool
	finished := make(chan struct{})
	task := func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		defer close(finished)
		fn()
	}

	select {
	case s.ops <- task:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		if claimed.CompareAndSwap(false, true) {
			return ctx.Err()
		}
	case <-s.done:
		if claimed.CompareAndSwap(false, true) {
			return ErrClosed
		}
	}

	<-finished
	return nil
}

func outcomeOf(kind models.OperationKind, result protocol.Result) Outcome {
	if !result.Success {
		reason := result.Reason
		if reason == "" {
			reason = defaultReason(kind)
		}
		return Outcome{Status: OutcomeFailed, Reason: reason}
	}

	return Outcome{
		Status:    OutcomeSucceeded,
		User:      result.User,
		SessionID: result.SessionID,
		Found:     result.Found,
		Chats:     result.Chats,
		Chat:      result.Chat,
		Messages:  result.Messages,
		Message:   result.Message,
		MessageID: result.MessageID,
	}
}

func defaultReason(kind models.OperationKind) string {
	switch kind {
	case models.OperationLogin:
		return ReasonLoginFailed
	case models.OperationRegister:
		return ReasonRegisterFailed
	case models.OperationResume:
		return ReasonResumeFailed
	case models.OperationLookup:
		return ReasonLookupFailed
	default:
		return ReasonChatFailed
	}
}
