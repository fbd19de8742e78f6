package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/mock"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/utils"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeSession hands out operations from a real registry and records what
// was submitted.
type fakeSession struct {
	reg *session.Registry

	loggedIn    []models.LoginCredentials
	registered  []models.RegisterCredentials
	resumed     []string
	looked      []string
	acks        int
	logouts     int
	logoutErr   error
	submitError error

	// answers resolves chat requests as soon as they are submitted
	answers map[models.OperationKind]session.Outcome
	sentTo  []models.OutgoingMessage
	deleted []int64
}

func newFakeSession() *fakeSession {
	return &fakeSession{reg: session.NewRegistry()}
}

func (f *fakeSession) State() models.SessionState { return models.SessionState{} }

func (f *fakeSession) submit(kind models.OperationKind) (*session.PendingOperation, error) {
	if f.submitError != nil {
		return nil, f.submitError
	}
	return f.reg.Submit(kind)
}

func (f *fakeSession) Login(_ context.Context, creds models.LoginCredentials) (*session.PendingOperation, error) {
	f.loggedIn = append(f.loggedIn, creds)
	return f.submit(models.OperationLogin)
}

func (f *fakeSession) Register(_ context.Context, creds models.RegisterCredentials) (*session.PendingOperation, error) {
	f.registered = append(f.registered, creds)
	return f.submit(models.OperationRegister)
}

func (f *fakeSession) Resume(_ context.Context, sessionID string) (*session.PendingOperation, error) {
	f.resumed = append(f.resumed, sessionID)
	return f.submit(models.OperationResume)
}

func (f *fakeSession) Lookup(_ context.Context, identifier string) (*session.PendingOperation, error) {
	f.looked = append(f.looked, identifier)
	return f.submit(models.OperationLookup)
}

func (f *fakeSession) answer(kind models.OperationKind) (*session.PendingOperation, error) {
	op, err := f.submit(kind)
	if err != nil {
		return nil, err
	}
	if outcome, ok := f.answers[kind]; ok {
		f.reg.Resolve(kind, outcome)
	}
	return op, nil
}

func (f *fakeSession) LoadChats(context.Context) (*session.PendingOperation, error) {
	return f.answer(models.OperationLoadChats)
}

func (f *fakeSession) OpenChat(context.Context, int64) (*session.PendingOperation, error) {
	return f.answer(models.OperationOpenChat)
}

func (f *fakeSession) SendMessage(_ context.Context, chatID int64, content string) (*session.PendingOperation, error) {
	f.sentTo = append(f.sentTo, models.OutgoingMessage{ChatID: chatID, Content: content})
	return f.answer(models.OperationSendMessage)
}

func (f *fakeSession) DeleteMessage(_ context.Context, messageID int64) (*session.PendingOperation, error) {
	f.deleted = append(f.deleted, messageID)
	return f.answer(models.OperationDeleteMessage)
}

func (f *fakeSession) Acknowledge(context.Context) error {
	f.acks++
	return nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestClientAuthSvc(t *testing.T, ctrl *gomock.Controller) (*clientAuthService, *fakeSession, *mock.MockLocalSessionStore) {
	t.Helper()
	sess := newFakeSession()
	local := mock.NewMockLocalSessionStore(ctrl)

	svc := NewClientAuthService(sess, local, validators.NewCredentialsValidator(), logger.Nop()).(*clientAuthService)
	svc.now = func() time.Time { return testNow }

	return svc, sess, local
}

// tokenExpiringAt signs a token whose exp claim is at.
func tokenExpiringAt(t *testing.T, at time.Time) string {
	t.Helper()
	ttl := time.Until(at)
	if ttl <= 0 {
		ttl = time.Second
	}
	token, err := utils.GenerateSessionToken("whispee", 7, "sid", ttl, "key")
	require.NoError(t, err)
	return token.SignedString
}

// ── Login / Register / Lookup ────────────────────────────────────────────────

func TestClientAuthService_Login_Submits(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)

	creds := models.LoginCredentials{Identifier: "alice", Password: "password1"}
	op, err := svc.Login(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, models.OperationLogin, op.Kind)
	assert.Equal(t, []models.LoginCredentials{creds}, sess.loggedIn)
}

// Invalid input never reaches the session.
func TestClientAuthService_ValidationBeforeSubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginCredentials{Identifier: "al", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidIdentifier)

	_, err = svc.Register(ctx, models.RegisterCredentials{Username: "alice", Email: "not-an-email", Password: "password1"})
	assert.ErrorIs(t, err, validators.ErrInvalidEmail)

	_, err = svc.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	assert.Empty(t, sess.loggedIn)
	assert.Empty(t, sess.registered)
	assert.Empty(t, sess.looked)
}

func TestClientAuthService_SubmitErrorPassedThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)
	sess.submitError = session.ErrBusy

	_, err := svc.Register(context.Background(), models.RegisterCredentials{Username: "alice", Email: "alice@example.com", Password: "password1"})
	assert.ErrorIs(t, err, session.ErrBusy)
}

// ── Await ────────────────────────────────────────────────────────────────────

func TestClientAuthService_Await_SavesTokenOnSuccess(t *testing.T) {
	for _, kind := range []models.OperationKind{models.OperationLogin, models.OperationRegister, models.OperationResume} {
		t.Run(kind.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, sess, local := newTestClientAuthSvc(t, ctrl)
			ctx := context.Background()

			op, err := sess.reg.Submit(kind)
			require.NoError(t, err)

			user := &models.Identity{UserID: 7, Username: "alice", Email: "alice@example.com"}
			sess.reg.Resolve(kind, session.Outcome{Status: session.OutcomeSucceeded, User: user, SessionID: "tok"})

			local.EXPECT().SaveLocalSession(ctx, models.LocalSession{SessionID: "tok", Username: "alice", SavedAt: testNow}).Return(nil)

			outcome, err := svc.Await(ctx, op)
			require.NoError(t, err)
			assert.Equal(t, session.OutcomeSucceeded, outcome.Status)
		})
	}
}

// A save failure is logged; the login itself still counts.
func TestClientAuthService_Await_SaveErrorIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	op, err := sess.reg.Submit(models.OperationLogin)
	require.NoError(t, err)
	sess.reg.Resolve(models.OperationLogin, session.Outcome{Status: session.OutcomeSucceeded, User: &models.Identity{Username: "alice"}, SessionID: "tok"})

	local.EXPECT().SaveLocalSession(ctx, gomock.Any()).Return(errors.New("disk full"))

	outcome, err := svc.Await(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeSucceeded, outcome.Status)
}

func TestClientAuthService_Await_RejectedResumeClearsToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	op, err := sess.reg.Submit(models.OperationResume)
	require.NoError(t, err)
	sess.reg.Resolve(models.OperationResume, session.Outcome{Status: session.OutcomeFailed, Reason: "session expired"})

	local.EXPECT().ClearLocalSession(ctx).Return(nil)

	outcome, err := svc.Await(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, "session expired", outcome.Reason)
}

// Timeouts and failed logins leave the stored token alone.
func TestClientAuthService_Await_NoStoreChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	resume, err := sess.reg.Submit(models.OperationResume)
	require.NoError(t, err)
	sess.reg.Timeout(models.OperationResume, resume.ID)

	outcome, err := svc.Await(ctx, resume)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeTimeout, outcome.Status)

	login, err := sess.reg.Submit(models.OperationLogin)
	require.NoError(t, err)
	sess.reg.Resolve(models.OperationLogin, session.Outcome{Status: session.OutcomeFailed, Reason: "invalid username or password"})

	outcome, err = svc.Await(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeFailed, outcome.Status)

	lookup, err := sess.reg.Submit(models.OperationLookup)
	require.NoError(t, err)
	sess.reg.Resolve(models.OperationLookup, session.Outcome{Status: session.OutcomeSucceeded, Found: true, User: &models.Identity{Username: "alice"}})

	outcome, err = svc.Await(ctx, lookup)
	require.NoError(t, err)
	assert.True(t, outcome.Found)
}

func TestClientAuthService_Await_ContextDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)

	op, err := sess.reg.Submit(models.OperationLogin)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Await(ctx, op)
	assert.ErrorIs(t, err, context.Canceled)
}

// ── ResumeSaved ──────────────────────────────────────────────────────────────

func TestClientAuthService_ResumeSaved(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	svc.now = time.Now
	ctx := context.Background()

	token := tokenExpiringAt(t, time.Now().Add(time.Hour))
	local.EXPECT().LoadLocalSession(ctx).Return(models.LocalSession{SessionID: token, Username: "alice"}, nil)

	op, err := svc.ResumeSaved(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OperationResume, op.Kind)
	assert.Equal(t, []string{token}, sess.resumed)
}

func TestClientAuthService_ResumeSaved_NothingStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	local.EXPECT().LoadLocalSession(ctx).Return(models.LocalSession{}, store.ErrLocalSessionNotFound)

	_, err := svc.ResumeSaved(ctx)
	assert.ErrorIs(t, err, ErrNoSavedSession)
	assert.Empty(t, sess.resumed)
}

func TestClientAuthService_ResumeSaved_ExpiredOrBrokenTokenCleared(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{name: "expired", token: func(t *testing.T) string { return tokenExpiringAt(t, time.Now().Add(time.Hour)) }},
		{name: "garbage", token: func(*testing.T) string { return "garbage" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, sess, local := newTestClientAuthSvc(t, ctrl)
			svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
			ctx := context.Background()

			local.EXPECT().LoadLocalSession(ctx).Return(models.LocalSession{SessionID: tt.token(t)}, nil)
			local.EXPECT().ClearLocalSession(ctx).Return(nil)

			_, err := svc.ResumeSaved(ctx)
			assert.ErrorIs(t, err, ErrNoSavedSession)
			assert.Empty(t, sess.resumed)
		})
	}
}

func TestClientAuthService_ResumeSaved_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	loadErr := errors.New("database is locked")
	local.EXPECT().LoadLocalSession(ctx).Return(models.LocalSession{}, loadErr)

	_, err := svc.ResumeSaved(ctx)
	assert.ErrorIs(t, err, loadErr)
	assert.NotErrorIs(t, err, ErrNoSavedSession)
}

// ── Logout / Acknowledge ─────────────────────────────────────────────────────

func TestClientAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	local.EXPECT().ClearLocalSession(ctx).Return(nil).Times(2)

	require.NoError(t, svc.Logout(ctx))

	sess.logoutErr = session.ErrNotAuthenticated
	require.NoError(t, svc.Logout(ctx))

	assert.Equal(t, 2, sess.logouts)
}

func TestClientAuthService_Logout_SessionClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, local := newTestClientAuthSvc(t, ctrl)
	ctx := context.Background()

	sess.logoutErr = session.ErrClosed
	local.EXPECT().ClearLocalSession(ctx).Return(nil)

	assert.ErrorIs(t, svc.Logout(ctx), session.ErrClosed)
}

func TestClientAuthService_Acknowledge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, sess, _ := newTestClientAuthSvc(t, ctrl)

	require.NoError(t, svc.Acknowledge(context.Background()))
	assert.Equal(t, 1, sess.acks)
}
