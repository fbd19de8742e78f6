package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/whispee/internal/adapter"
	"github.com/MKhiriev/whispee/internal/app"
	"github.com/MKhiriev/whispee/internal/config"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/metrics"
	"github.com/MKhiriev/whispee/internal/protocol"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/models"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// inboxSize bounds the frames read ahead of the command loop. A full
	// inbox stalls the read loop, which pushes back on the peer.
	inboxSize = 16

	// broadcastWorkers bounds the concurrent writes of one broadcast.
	broadcastWorkers = 8
	// broadcastTimeout bounds the write to each reader of a chat.
	broadcastTimeout = 5 * time.Second
)

// broadcaster delivers a pushed chat event to the other readers of a chat.
type broadcaster interface {
	broadcast(ctx context.Context, from *connection, event protocol.Event)
}

func (h *Handler) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	connID := uuid.NewString()
	connLog := log.WithConn(connID)
	c := newConnection(connID, adapter.NewWebsocketTransport(conn, 0, connLog), h.services, h, h.cfg, connLog)

	if !h.track(c) {
		connLog.Info().Err(ErrServerShuttingDown).Msg("websocket connection refused")
		_ = c.transport.Close()
		return
	}
	defer h.untrack(c)

	metrics.ConnectionOpened()
	defer metrics.ConnectionClosed()

	connLog.Info().Str("remote_addr", r.RemoteAddr).Msg("websocket connection opened")
	c.serve(r.Context())
	connLog.Info().Msg("websocket connection closed")
}

// connection runs the commands of one websocket peer strictly one after
// another.
type connection struct {
	id        string
	transport *adapter.WebsocketTransport
	auth      service.AuthService
	chats     service.ChatService
	hub       broadcaster
	limiter   *rate.Limiter
	timeout   time.Duration

	// mu guards the fields below. They are written by the command loop and
	// read by broadcasts of other connections.
	mu         sync.Mutex
	user       *models.Identity
	openedChat int64

	inbox    chan []byte
	quit     chan struct{}
	stopOnce sync.Once

	logger *logger.Logger
}

func newConnection(id string, transport *adapter.WebsocketTransport, services *service.Services, hub broadcaster, cfg config.Server, log *logger.Logger) *connection {
	limit := rate.Inf
	if cfg.CommandRate > 0 {
		limit = rate.Limit(cfg.CommandRate)
	}
	burst := max(cfg.CommandBurst, 1)

	return &connection{
		id:        id,
		transport: transport,
		auth:      services.AuthService,
		chats:     services.ChatService,
		hub:       hub,
		limiter:   rate.NewLimiter(limit, burst),
		timeout:   cfg.RequestTimeout,
		inbox:     make(chan []byte, inboxSize),
		quit:      make(chan struct{}),
		logger:    log,
	}
}

// serve blocks until the peer goes away, ctx is done or stop is called, and
// closes the transport on the way out.
func (c *connection) serve(ctx context.Context) {
	c.transport.OnMessage(c.enqueue)
	c.transport.OnClose(func(err error) {
		if err != nil {
			c.logger.Debug().Err(err).Msg("websocket connection dropped")
		}
	})
	c.transport.Start()

	defer func() {
		c.stop()
		if err := c.transport.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("websocket close")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.quit:
			return
		case <-c.transport.Done():
			return
		case msg := <-c.inbox:
			c.handle(ctx, msg)
		}
	}
}

func (c *connection) stop() {
	c.stopOnce.Do(func() { close(c.quit) })
}

// enqueue is the transport message handler. It runs on the read loop.
func (c *connection) enqueue(msg []byte) {
	select {
	case c.inbox <- msg:
	case <-c.quit:
	}
}

func (c *connection) handle(ctx context.Context, raw []byte) {
	cmd, err := protocol.DecodeCommand(raw)
	if err != nil {
		c.rejectFrame(ctx, err)
		return
	}

	command := cmd.Kind.String()
	log := c.logger.With().Str("command", command).Str("request_id", cmd.ID).Logger()

	if !c.limiter.Allow() {
		metrics.RecordRateLimited("command")
		metrics.RecordCommand(command, metrics.ResultRejected, 0)
		log.Warn().Msg("command rate limit exceeded")
		c.reply(ctx, cmd, protocol.Failed(app.MsgTooManyRequests))
		return
	}

	start := time.Now()
	cmdCtx := log.WithContext(context.WithValue(ctx, utils.ConnIDCtxKey, c.id))
	if c.timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(cmdCtx, c.timeout)
		defer cancel()
	}

	result, err := c.execute(cmdCtx, cmd)
	if err != nil {
		reason := reasonFromError(err)
		if reason == app.MsgInternalServerError {
			log.Err(err).Msg("command failed")
		} else {
			log.Info().Str("reason", reason).Msg("command rejected")
		}
		metrics.RecordCommand(command, metrics.ResultFailed, time.Since(start))
		c.reply(ctx, cmd, protocol.Failed(reason))
		return
	}

	metrics.RecordCommand(command, metrics.ResultSucceeded, time.Since(start))
	log.Debug().Dur("duration", time.Since(start)).Msg("command handled")
	c.reply(ctx, cmd, result)
}

// rejectFrame records an undecodable frame. A known command with a bad
// payload is answered with a failed result echoing its id, anything else is
// dropped.
func (c *connection) rejectFrame(ctx context.Context, err error) {
	reason := protocol.ReasonMalformed
	var decodeErr *protocol.DecodeError
	if errors.As(err, &decodeErr) {
		reason = decodeErr.Reason
	}
	metrics.RecordDecodeError(reason.String())

	if decodeErr == nil || !decodeErr.Recognised() {
		c.logger.Warn().Err(err).Msg("frame dropped")
		return
	}

	kind, ok := protocol.ParseCommandKind(decodeErr.Discriminator)
	if !ok {
		c.logger.Warn().Err(err).Msg("frame dropped")
		return
	}

	c.logger.Info().Err(err).Str("command", kind.String()).Str("request_id", decodeErr.ID).Msg("invalid command rejected")
	metrics.RecordCommand(kind.String(), metrics.ResultRejected, 0)
	c.reply(ctx, protocol.Command{Kind: kind, ID: decodeErr.ID}, protocol.Failed(app.MsgInvalidRequest))
}

func (c *connection) execute(ctx context.Context, cmd protocol.Command) (protocol.Result, error) {
	if cmd.Kind.IsChat() {
		return c.executeChat(ctx, cmd)
	}

	var (
		auth models.Authentication
		err  error
	)

	switch cmd.Kind {
	case protocol.CommandLogin:
		auth, err = c.auth.Login(ctx, *cmd.Login)
	case protocol.CommandRegister:
		auth, err = c.auth.Register(ctx, *cmd.Register)
	case protocol.CommandCheckSession:
		auth, err = c.auth.Resume(ctx, *cmd.Session)
	case protocol.CommandCheckIdentifier:
		user, lookupErr := c.auth.Lookup(ctx, *cmd.Lookup)
		if lookupErr != nil {
			return protocol.Result{}, lookupErr
		}
		return protocol.LookupResult(user), nil
	case protocol.CommandLogout:
		c.signOut()
		return protocol.Result{}, c.auth.Logout(ctx, *cmd.Session)
	default:
		return protocol.Result{}, service.ErrInvalidDataProvided
	}
	if err != nil {
		return protocol.Result{}, err
	}

	c.signIn(auth.User)
	return protocol.Succeeded(auth.User, auth.SessionID), nil
}

// executeChat runs a chat command on behalf of the signed-in user. A sent or
// deleted message is pushed to the other readers of its chat before the
// sender is answered.
func (c *connection) executeChat(ctx context.Context, cmd protocol.Command) (protocol.Result, error) {
	user, ok := c.currentUser()
	if !ok {
		return protocol.Result{}, service.ErrNotAuthenticated
	}

	switch cmd.Kind {
	case protocol.CommandLoadChats:
		chats, err := c.chats.ListChats(ctx)
		if err != nil {
			return protocol.Result{}, err
		}
		return protocol.ChatsLoaded(chats), nil

	case protocol.CommandLoadChat:
		opened, err := c.chats.OpenChat(ctx, cmd.Chat.ChatID)
		if err != nil {
			return protocol.Result{}, err
		}
		c.setOpenedChat(opened.Chat.ChatID)
		return protocol.ChatOpened(opened), nil

	case protocol.CommandSendMessage:
		msg, err := c.chats.SendMessage(ctx, user, *cmd.Message)
		if err != nil {
			return protocol.Result{}, err
		}
		c.hub.broadcast(ctx, c, protocol.Event{Type: protocol.EventMessageSent, Result: protocol.MessageStored(msg)})
		return protocol.MessageStored(msg), nil

	case protocol.CommandDeleteMessage:
		msg, err := c.chats.DeleteMessage(ctx, user, *cmd.Deletion)
		if err != nil {
			return protocol.Result{}, err
		}
		c.hub.broadcast(ctx, c, protocol.Event{Type: protocol.EventMessageDeleted, Result: protocol.MessageRemoved(msg)})
		return protocol.MessageRemoved(msg), nil
	}

	return protocol.Result{}, service.ErrInvalidDataProvided
}

func (c *connection) signIn(user models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = &user
}

// signOut forgets the user and the chat they had open.
func (c *connection) signOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.openedChat = 0
}

func (c *connection) currentUser() (models.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return models.Identity{}, false
	}
	return *c.user, true
}

func (c *connection) setOpenedChat(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.openedChat = chatID
}

// reads reports whether the connection is signed in with chatID open.
func (c *connection) reads(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.user != nil && c.openedChat == chatID
}

// reply sends the result event answering cmd, echoing its id. Commands
// without a result event, such as logout, get no reply.
func (c *connection) reply(ctx context.Context, cmd protocol.Command, result protocol.Result) {
	eventType, ok := protocol.ResultEventFor(cmd.Kind)
	if !ok {
		return
	}

	payload, err := protocol.EncodeEvent(protocol.Event{Type: eventType, ID: cmd.ID, Result: result})
	if err != nil {
		c.logger.Err(err).Str("event", eventType.String()).Msg("encode event")
		return
	}

	if err = c.transport.Send(ctx, payload); err != nil {
		c.logger.Warn().Err(err).Str("event", eventType.String()).Msg("send event")
	}
}

// push sends an event that answers no command.
func (c *connection) push(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, broadcastTimeout)
	defer cancel()

	return c.transport.Send(ctx, payload)
}

// broadcast implements [broadcaster]. Every tracked connection other than
// from that reads the event's chat gets a copy. Slow readers are bounded by
// broadcastTimeout and never fail the sender's command.
func (h *Handler) broadcast(ctx context.Context, from *connection, event protocol.Event) {
	chatID := event.Result.ChatID

	payload, err := protocol.EncodeEvent(event)
	if err != nil {
		h.logger.Err(err).Str("event", event.Type.String()).Msg("encode broadcast")
		return
	}

	h.mu.Lock()
	readers := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		if c != from && c.reads(chatID) {
			readers = append(readers, c)
		}
	}
	h.mu.Unlock()

	// detached from the command deadline so a late reply does not cut the
	// broadcast short
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(broadcastWorkers)
	for _, c := range readers {
		g.Go(func() error {
			if err := c.push(ctx, payload); err != nil {
				c.logger.Debug().Err(err).Str("event", event.Type.String()).Msg("broadcast skipped")
			}
			return nil
		})
	}
	_ = g.Wait()

	metrics.RecordBroadcast(event.Type.String(), len(readers))
}
