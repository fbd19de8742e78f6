package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClientChatSvc(answers map[models.OperationKind]session.Outcome) (ClientChatService, *fakeSession) {
	sess := newFakeSession()
	sess.answers = answers
	return NewClientChatService(sess, validators.NewChatValidator(), logger.Nop()), sess
}

func TestClientChatService_LoadChats(t *testing.T) {
	chats := []models.Chat{{ChatID: 1, Title: "general"}, {ChatID: 2, Title: "random"}}
	svc, _ := newTestClientChatSvc(map[models.OperationKind]session.Outcome{
		models.OperationLoadChats: {Status: session.OutcomeSucceeded, Chats: chats},
	})

	got, err := svc.LoadChats(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(chats, got); diff != "" {
		t.Fatalf("chats mismatch (-want +got):\n%s", diff)
	}
}

func TestClientChatService_OpenChat(t *testing.T) {
	chat := models.Chat{ChatID: 2, Title: "random"}
	messages := []models.Message{{MessageID: 5, ChatID: 2, Username: "bob", Content: "hi"}}
	svc, _ := newTestClientChatSvc(map[models.OperationKind]session.Outcome{
		models.OperationOpenChat: {Status: session.OutcomeSucceeded, Chat: &chat, Messages: messages},
	})

	got, err := svc.OpenChat(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.OpenedChat{Chat: chat, Messages: messages}, got)

	_, err = svc.OpenChat(context.Background(), 0)
	assert.ErrorIs(t, err, validators.ErrInvalidChatID)
}

func TestClientChatService_Send(t *testing.T) {
	stored := models.Message{MessageID: 11, ChatID: 1, UserID: 7, Username: "alice", Content: "hello"}
	svc, sess := newTestClientChatSvc(map[models.OperationKind]session.Outcome{
		models.OperationSendMessage: {Status: session.OutcomeSucceeded, Message: &stored},
	})

	got, err := svc.Send(context.Background(), models.OutgoingMessage{ChatID: 1, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, []models.OutgoingMessage{{ChatID: 1, Content: "hello"}}, sess.sentTo)
}

// Invalid messages never reach the session.
func TestClientChatService_Send_Validates(t *testing.T) {
	svc, sess := newTestClientChatSvc(nil)

	_, err := svc.Send(context.Background(), models.OutgoingMessage{ChatID: 1, Content: "   "})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrEmptyMessage)
	assert.Empty(t, sess.sentTo)
}

func TestClientChatService_RejectedCarriesReason(t *testing.T) {
	svc, sess := newTestClientChatSvc(map[models.OperationKind]session.Outcome{
		models.OperationDeleteMessage: {Status: session.OutcomeFailed, Reason: "only the author can delete a message"},
	})

	err := svc.Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrChatRequestFailed)
	assert.ErrorContains(t, err, "only the author can delete a message")
	assert.Equal(t, []int64{4}, sess.deleted)
}

func TestClientChatService_SubmitError(t *testing.T) {
	svc, sess := newTestClientChatSvc(nil)
	sess.submitError = session.ErrNotAuthenticated

	_, err := svc.LoadChats(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

// Await gives up with the caller's context while the reply is outstanding.
func TestClientChatService_ContextEnds(t *testing.T) {
	svc, _ := newTestClientChatSvc(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.LoadChats(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
