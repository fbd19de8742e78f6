package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/whispee/internal/adapter"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/service"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type page int

const (
	pageStart page = iota
	pageLogin
	pageRegister
	pageHome
	pageChat
)

// Model is the root Bubble Tea model. It owns the screens, routes keys to
// the active one and follows the navigation requested by session states.
type Model struct {
	ctx      context.Context
	auth     service.ClientAuthService
	chat     service.ClientChatService
	notifier *Adapter
	info     adapter.ServerInfoAdapter
	build    models.AppBuildInfo
	logger   *logger.Logger

	page page
	view ViewState

	start    *form
	login    *form
	register *form
	compose  *form
	greeting string

	chats    []models.Chat
	chatsErr string
	selected int
	opened   *models.OpenedChat
	chatBusy bool

	lookingUp bool
	errMsg    string
	status    string

	showAbout     bool
	serverInfo    *models.AppBuildInfo
	serverInfoErr string
}

func newModel(ctx context.Context, auth service.ClientAuthService, chat service.ClientChatService, notifier *Adapter, info adapter.ServerInfoAdapter, build models.AppBuildInfo, log *logger.Logger) Model {
	return Model{
		ctx:      ctx,
		auth:     auth,
		chat:     chat,
		notifier: notifier,
		info:     info,
		build:    build,
		logger:   log,
		view:     ViewStateFor(models.SessionState{}),
		start:    newStartForm(),
		login:    newLoginForm(),
		register: newRegisterForm(),
		compose:  newComposeForm(),
	}
}

// Init subscribes to session states and chat changes and tries to resume
// the saved session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.notifier.Listen(m.ctx), m.notifier.ListenChat(m.ctx), m.resumeSaved(), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		return m.applyState(msg)

	case lookupDoneMsg:
		return m.lookupDone(msg)

	case ChatEventMsg:
		return m.chatChanged(msg)

	case chatsLoadedMsg:
		if msg.err != nil {
			m.chatsErr = humanizeError(msg.err)
			return m, nil
		}
		m.chats = msg.chats
		if m.chats == nil {
			m.chats = []models.Chat{}
		}
		m.chatsErr = ""
		m.selected = min(m.selected, max(len(m.chats)-1, 0))
		return m, nil

	case chatOpenedMsg:
		m.chatBusy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		if m.page != pageHome {
			return m, nil
		}
		m.opened = &msg.opened
		m.page = pageChat
		m.compose.reset()
		return m, textinput.Blink

	case messageSentMsg:
		m.chatBusy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.compose.reset()
		if m.opened != nil && m.opened.Chat.ChatID == msg.message.ChatID {
			opened := *m.opened
			opened.Messages = appendMessage(opened.Messages, msg.message)
			m.opened = &opened
		}
		return m, nil

	case messageDeletedMsg:
		m.chatBusy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		if m.opened != nil {
			opened := *m.opened
			opened.Messages = removeMessage(opened.Messages, msg.messageID)
			m.opened = &opened
		}
		return m, nil

	case identityDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.errMsg = humanizeError(msg.err)
		}
		return m, nil

	case resumeSkippedMsg:
		if !errors.Is(msg.err, service.ErrNoSavedSession) {
			m.logger.Warn().Err(msg.err).Msg("session resume skipped")
		}
		return m, nil

	case acknowledgedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("acknowledge failed")
		}
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
		}
		return m, nil

	case serverInfoMsg:
		if msg.err != nil {
			m.serverInfoErr = humanizeError(msg.err)
			return m, nil
		}
		m.serverInfo = &msg.info
		m.serverInfoErr = ""
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.errMsg = "copy to clipboard: " + msg.err.Error()
			return m, nil
		}
		m.status = "Session id copied to clipboard"
		return m, clearStatusAfter(statusTTL)

	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	if f := m.activeForm(); f != nil {
		return m, f.update(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.showAbout {
		return renderBuildInfoWindow(m.build, m.serverInfo, m.serverInfoErr)
	}

	var body string
	switch m.page {
	case pageLogin:
		body = m.viewLogin()
	case pageRegister:
		body = m.viewRegister()
	case pageHome:
		body = m.viewHome()
	case pageChat:
		body = m.viewChat()
	default:
		body = m.viewStart()
	}

	if m.view.Phase == models.PhaseFailed {
		return body + "\n\n" + renderErrorOverlay(m.view.Error)
	}
	return body
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		return m, tea.Quit
	}

	if m.showAbout {
		if key.Matches(msg, keys.esc, keys.about) {
			m.showAbout = false
		}
		return m, nil
	}
	if key.Matches(msg, keys.about) {
		m.showAbout = true
		return m, m.fetchServerInfo()
	}

	// a failure stays on screen until it is dismissed
	if m.view.Phase == models.PhaseFailed {
		if key.Matches(msg, keys.enter, keys.esc) {
			return m, m.acknowledge()
		}
		return m, nil
	}

	if m.view.Loading || m.lookingUp {
		return m, nil
	}

	switch m.page {
	case pageHome:
		return m.handleHomeKey(msg)
	case pageChat:
		return m.handleChatKey(msg)
	case pageLogin, pageRegister:
		if key.Matches(msg, keys.esc) {
			m.page = pageStart
			m.errMsg = ""
			return m, nil
		}
	}

	f := m.activeForm()
	switch {
	case key.Matches(msg, keys.tab):
		f.focusNext()
		return m, nil
	case key.Matches(msg, keys.backtab):
		f.focusPrev()
		return m, nil
	case key.Matches(msg, keys.enter):
		if !f.onLast() {
			f.focusNext()
			return m, nil
		}
		return m.submit()
	}

	return m, f.update(msg)
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.copy):
		if m.view.SessionID == "" {
			return m, nil
		}
		return m, copyToClipboard(m.view.SessionID)
	case key.Matches(msg, keys.logout):
		m.errMsg = ""
		return m, m.logout()
	case m.chatBusy:
		return m, nil
	}
	return m.handleChatsKey(msg)
}

// submit sends the form of the active page.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.errMsg = ""

	switch m.page {
	case pageStart:
		identifier := m.start.value(0)
		if identifier == "" {
			m.errMsg = "Enter a username or email"
			return m, nil
		}
		m.lookingUp = true
		return m, m.lookup(identifier)

	case pageLogin:
		creds := models.LoginCredentials{
			Identifier: m.login.value(loginIdentifier),
			Password:   m.login.secret(loginPassword),
		}
		return m, m.awaitIdentity(models.OperationLogin, func() (*session.PendingOperation, error) {
			return m.auth.Login(m.ctx, creds)
		})

	case pageRegister:
		creds := models.RegisterCredentials{
			Username: m.register.value(registerUsername),
			Email:    m.register.value(registerEmail),
			Password: m.register.secret(registerPassword),
		}
		return m, m.awaitIdentity(models.OperationRegister, func() (*session.PendingOperation, error) {
			return m.auth.Register(m.ctx, creds)
		})
	}

	return m, nil
}

func (m Model) applyState(msg StateMsg) (tea.Model, tea.Cmd) {
	m.view = msg.View

	switch msg.View.Navigate {
	case NavigateHome:
		if m.page != pageHome && m.page != pageChat {
			m.page = pageHome
			m.errMsg = ""
			m.login.reset()
			m.register.reset()
			m.chats, m.chatsErr, m.selected = nil, "", 0
			return m, tea.Batch(m.notifier.Listen(m.ctx), m.loadChats())
		}
	case NavigateStart:
		if m.page == pageHome || m.page == pageChat {
			m.page = pageStart
			m.start.reset()
			m.compose.reset()
			m.status = ""
			m.chats, m.opened, m.chatBusy = nil, nil, false
		}
	}

	return m, m.notifier.Listen(m.ctx)
}

func (m Model) lookupDone(msg lookupDoneMsg) (tea.Model, tea.Cmd) {
	m.lookingUp = false

	switch {
	case msg.err != nil:
		m.errMsg = humanizeError(msg.err)
		return m, nil
	case msg.outcome.Status != session.OutcomeSucceeded:
		m.errMsg = msg.outcome.Reason
		return m, nil
	case msg.outcome.Found && msg.outcome.User != nil:
		m.prepareLogin(msg.identifier, msg.outcome.User.Username)
		m.page = pageLogin
	default:
		m.prepareRegister(msg.identifier)
		m.page = pageRegister
	}

	return m, textinput.Blink
}

func (m Model) activeForm() *form {
	switch m.page {
	case pageStart:
		return m.start
	case pageLogin:
		return m.login
	case pageRegister:
		return m.register
	case pageChat:
		return m.compose
	}
	return nil
}

// writeFooter renders the submit button, the loader and the inline error
// under a form.
func (m Model) writeFooter(b *strings.Builder, button string) {
	b.WriteString("\n")
	switch {
	case m.lookingUp:
		b.WriteString(LoadingLabel(models.OperationLookup))
	case m.view.Loading:
		b.WriteString(LoadingLabel(m.view.Kind))
	default:
		b.WriteString(button)
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
	}
}

func (m Model) lookup(identifier string) tea.Cmd {
	ctx, auth := m.ctx, m.auth

	return func() tea.Msg {
		op, err := auth.Lookup(ctx, identifier)
		if err != nil {
			return lookupDoneMsg{identifier: identifier, err: err}
		}
		outcome, err := auth.Await(ctx, op)
		return lookupDoneMsg{identifier: identifier, outcome: outcome, err: err}
	}
}

func (m Model) awaitIdentity(kind models.OperationKind, submit func() (*session.PendingOperation, error)) tea.Cmd {
	ctx, auth := m.ctx, m.auth

	return func() tea.Msg {
		op, err := submit()
		if err != nil {
			return identityDoneMsg{kind: kind, err: err}
		}
		outcome, err := auth.Await(ctx, op)
		return identityDoneMsg{kind: kind, outcome: outcome, err: err}
	}
}

func (m Model) resumeSaved() tea.Cmd {
	ctx, auth := m.ctx, m.auth

	return func() tea.Msg {
		op, err := auth.ResumeSaved(ctx)
		if err != nil {
			return resumeSkippedMsg{err: err}
		}
		outcome, err := auth.Await(ctx, op)
		return identityDoneMsg{kind: models.OperationResume, outcome: outcome, err: err}
	}
}

func (m Model) acknowledge() tea.Cmd {
	ctx, auth := m.ctx, m.auth

	return func() tea.Msg {
		return acknowledgedMsg{err: auth.Acknowledge(ctx)}
	}
}

func (m Model) logout() tea.Cmd {
	ctx, auth := m.ctx, m.auth

	return func() tea.Msg {
		return loggedOutMsg{err: auth.Logout(ctx)}
	}
}

func (m Model) fetchServerInfo() tea.Cmd {
	if m.info == nil {
		return nil
	}
	ctx, info := m.ctx, m.info

	return func() tea.Msg {
		buildInfo, err := info.Version(ctx)
		return serverInfoMsg{info: buildInfo, err: err}
	}
}
