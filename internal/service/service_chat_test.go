package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/mock"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestChatSvc(t *testing.T) (ChatService, *mock.MockChatRepository) {
	t.Helper()
	chats := mock.NewMockChatRepository(gomock.NewController(t))
	return NewChatService(chats, validators.NewChatValidator(), logger.Nop()), chats
}

var general = models.Chat{ChatID: 1, Title: "general", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

func TestChatService_OpenChat(t *testing.T) {
	svc, chats := newTestChatSvc(t)
	ctx := context.Background()

	history := []models.Message{{MessageID: 3, ChatID: 1, UserID: 7, Username: "alice", Content: "hi"}}
	chats.EXPECT().GetChat(ctx, int64(1)).Return(general, nil)
	chats.EXPECT().ListMessages(ctx, int64(1), uint64(OpenChatHistory)).Return(history, nil)

	opened, err := svc.OpenChat(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.OpenedChat{Chat: general, Messages: history}, opened)
}

func TestChatService_OpenChat_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		svc, _ := newTestChatSvc(t)
		_, err := svc.OpenChat(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
		assert.ErrorIs(t, err, validators.ErrInvalidChatID)
	})

	t.Run("unknown chat", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetChat(ctx, int64(9)).Return(models.Chat{}, store.ErrChatNotFound)

		_, err := svc.OpenChat(ctx, 9)
		assert.ErrorIs(t, err, store.ErrChatNotFound)
	})

	t.Run("history fails", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetChat(ctx, int64(1)).Return(general, nil)
		chats.EXPECT().ListMessages(ctx, int64(1), gomock.Any()).Return(nil, store.ErrExecutingQuery)

		_, err := svc.OpenChat(ctx, 1)
		assert.ErrorIs(t, err, store.ErrExecutingQuery)
	})
}

func TestChatService_SendMessage(t *testing.T) {
	svc, chats := newTestChatSvc(t)
	ctx := context.Background()
	author := alice.Identity()

	gomock.InOrder(
		chats.EXPECT().GetChat(ctx, int64(1)).Return(general, nil),
		chats.EXPECT().CreateMessage(ctx, models.Message{ChatID: 1, UserID: alice.UserID, Content: "hello"}).
			DoAndReturn(func(_ context.Context, msg models.Message) (models.Message, error) {
				msg.MessageID = 11
				return msg, nil
			}),
	)

	msg, err := svc.SendMessage(ctx, author, models.OutgoingMessage{ChatID: 1, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), msg.MessageID)
	assert.Equal(t, "alice", msg.Username)
}

func TestChatService_SendMessage_Rejected(t *testing.T) {
	ctx := context.Background()
	author := alice.Identity()

	tests := []struct {
		name    string
		msg     models.OutgoingMessage
		wantErr error
	}{
		{name: "blank", msg: models.OutgoingMessage{ChatID: 1, Content: "  "}, wantErr: validators.ErrEmptyMessage},
		{name: "no chat", msg: models.OutgoingMessage{Content: "hello"}, wantErr: validators.ErrInvalidChatID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestChatSvc(t)

			_, err := svc.SendMessage(ctx, author, tt.msg)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown chat", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetChat(ctx, int64(5)).Return(models.Chat{}, store.ErrChatNotFound)

		_, err := svc.SendMessage(ctx, author, models.OutgoingMessage{ChatID: 5, Content: "hello"})
		assert.ErrorIs(t, err, store.ErrChatNotFound)
	})
}

func TestChatService_DeleteMessage(t *testing.T) {
	ctx := context.Background()
	own := models.Message{MessageID: 4, ChatID: 1, UserID: alice.UserID, Username: "alice", Content: "oops"}

	t.Run("author", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		gomock.InOrder(
			chats.EXPECT().GetMessage(ctx, int64(4)).Return(own, nil),
			chats.EXPECT().DeleteMessage(ctx, int64(4)).Return(nil),
		)

		removed, err := svc.DeleteMessage(ctx, alice.Identity(), models.MessageRef{MessageID: 4})
		require.NoError(t, err)
		assert.Equal(t, own, removed)
	})

	t.Run("someone else", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetMessage(ctx, int64(4)).Return(own, nil)

		_, err := svc.DeleteMessage(ctx, models.Identity{UserID: 8, Username: "bob"}, models.MessageRef{MessageID: 4})
		assert.ErrorIs(t, err, ErrNotMessageAuthor)
	})

	t.Run("missing", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetMessage(ctx, int64(4)).Return(models.Message{}, store.ErrMessageNotFound)

		_, err := svc.DeleteMessage(ctx, alice.Identity(), models.MessageRef{MessageID: 4})
		assert.ErrorIs(t, err, store.ErrMessageNotFound)
	})

	t.Run("delete fails", func(t *testing.T) {
		svc, chats := newTestChatSvc(t)
		chats.EXPECT().GetMessage(ctx, int64(4)).Return(own, nil)
		chats.EXPECT().DeleteMessage(ctx, int64(4)).Return(errors.New("disk full"))

		_, err := svc.DeleteMessage(ctx, alice.Identity(), models.MessageRef{MessageID: 4})
		assert.EqualError(t, err, "message deletion failed: disk full")
	})

	t.Run("invalid ref", func(t *testing.T) {
		svc, _ := newTestChatSvc(t)

		_, err := svc.DeleteMessage(ctx, alice.Identity(), models.MessageRef{})
		assert.ErrorIs(t, err, validators.ErrInvalidMessageID)
	})
}

func TestChatService_ListChats(t *testing.T) {
	svc, chats := newTestChatSvc(t)
	ctx := context.Background()

	chats.EXPECT().ListChats(ctx).Return([]models.Chat{general}, nil)

	got, err := svc.ListChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Chat{general}, got)
}
