package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/migrations"
	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatRepo(t *testing.T) (*chatRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l := logger.Nop()
	repo := &chatRepository{
		db: &DB{
			DB:                 db,
			dialect:            migrations.DialectPostgres,
			logger:             l,
			errorClassificator: NewPostgresErrorClassifier(),
		},
		logger: l,
	}

	return repo, mock
}

const (
	selectChatsQuery    = `SELECT chat_id, title, created_at FROM chats ORDER BY chat_id`
	selectChatQuery     = `SELECT chat_id, title, created_at FROM chats WHERE chat_id = $1 LIMIT 1`
	selectMessagesQuery = `SELECT m.message_id, m.chat_id, m.user_id, u.username, m.content, m.created_at FROM messages m JOIN users u ON u.user_id = m.user_id WHERE m.chat_id = $1 ORDER BY m.message_id DESC LIMIT 2`
	insertMessageQuery  = `INSERT INTO messages (chat_id,user_id,content,created_at) VALUES ($1,$2,$3,$4) RETURNING message_id`
	deleteMessageQuery  = `DELETE FROM messages WHERE message_id = $1`
)

var messageRowColumns = []string{"message_id", "chat_id", "user_id", "username", "content", "created_at"}

func TestListChats(t *testing.T) {
	repo, mock := newTestChatRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(selectChatsQuery)).
		WillReturnRows(sqlmock.NewRows(chatColumns).AddRow(1, "general", now).AddRow(2, "random", now))

	chats, err := repo.ListChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Chat{{ChatID: 1, Title: "general", CreatedAt: now}, {ChatID: 2, Title: "random", CreatedAt: now}}, chats)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChat_NotFound(t *testing.T) {
	repo, mock := newTestChatRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectChatQuery)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(chatColumns))

	_, err := repo.GetChat(context.Background(), 42)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

// The newest rows come back first and are returned oldest first.
func TestListMessages_OldestFirst(t *testing.T) {
	repo, mock := newTestChatRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(selectMessagesQuery)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(messageRowColumns).
			AddRow(9, 1, 7, "alice", "second", now).
			AddRow(8, 1, 3, "bob", "first", now))

	messages, err := repo.ListMessages(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "bob", messages[0].Username)
	assert.Equal(t, int64(9), messages[1].MessageID)
}

func TestCreateMessage(t *testing.T) {
	repo, mock := newTestChatRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertMessageQuery)).
		WithArgs(int64(1), int64(7), "hello", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"message_id"}).AddRow(15))

	msg, err := repo.CreateMessage(context.Background(), models.Message{ChatID: 1, UserID: 7, Username: "alice", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, int64(15), msg.MessageID)
	assert.Equal(t, "alice", msg.Username)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestCreateMessage_DriverError(t *testing.T) {
	repo, mock := newTestChatRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(insertMessageQuery)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.CreateMessage(context.Background(), models.Message{ChatID: 1, UserID: 7, Content: "hello"})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestDeleteMessage(t *testing.T) {
	repo, mock := newTestChatRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(deleteMessageQuery)).
		WithArgs(int64(15)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteMessageQuery)).
		WithArgs(int64(16)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteMessage(context.Background(), 15))
	assert.ErrorIs(t, repo.DeleteMessage(context.Background(), 16), ErrMessageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The same repository against a migrated SQLite file.
func TestChatRepository_SQLite(t *testing.T) {
	ctx := context.Background()

	db, err := NewConnectSQLite(ctx, filepath.Join(t.TempDir(), "server.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(migrations.ServerSet))

	users := NewUserRepository(db, logger.Nop())
	repo := NewChatRepository(db, logger.Nop())

	alice, err := users.CreateUser(ctx, models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	chats, err := repo.ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, "general", chats[0].Title)

	general, err := repo.GetChat(ctx, chats[0].ChatID)
	require.NoError(t, err)
	assert.Equal(t, chats[0].Title, general.Title)

	for _, content := range []string{"one", "two", "three"} {
		_, err = repo.CreateMessage(ctx, models.Message{ChatID: general.ChatID, UserID: alice.UserID, Content: content})
		require.NoError(t, err)
	}

	latest, err := repo.ListMessages(ctx, general.ChatID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "two", latest[0].Content)
	assert.Equal(t, "three", latest[1].Content)
	assert.Equal(t, "alice", latest[1].Username)

	got, err := repo.GetMessage(ctx, latest[0].MessageID)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, got.UserID)

	require.NoError(t, repo.DeleteMessage(ctx, got.MessageID))
	_, err = repo.GetMessage(ctx, got.MessageID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	assert.ErrorIs(t, repo.DeleteMessage(ctx, got.MessageID), ErrMessageNotFound)

	// foreign keys are on
	_, err = repo.CreateMessage(ctx, models.Message{ChatID: 999, UserID: alice.UserID, Content: "lost"})
	assert.ErrorIs(t, err, ErrExecutingQuery)

	_, err = repo.GetChat(ctx, 999)
	assert.ErrorIs(t, err, ErrChatNotFound)
}
