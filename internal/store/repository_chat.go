package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/models"
	sq "github.com/Masterminds/squirrel"
)

var (
	chatColumns    = []string{"chat_id", "title", "created_at"}
	messageColumns = []string{"m.message_id", "m.chat_id", "m.user_id", "u.username", "m.content", "m.created_at"}
)

type chatRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewChatRepository constructs a [ChatRepository] backed by db.
func NewChatRepository(db *DB, logger *logger.Logger) ChatRepository {
	logger.Debug().Msg("creating chat repository")
	return &chatRepository{
		db:     db,
		logger: logger,
	}
}

func (r *chatRepository) ListChats(ctx context.Context) ([]models.Chat, error) {
	query, args, err := r.db.builder().
		Select(chatColumns...).
		From(models.Chat{}.TableName()).
		OrderBy("chat_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.queryError(ctx, "*chatRepository.ListChats", err)
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		var chat models.Chat
		if err = rows.Scan(&chat.ChatID, &chat.Title, &chat.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		chats = append(chats, chat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return chats, nil
}

func (r *chatRepository) GetChat(ctx context.Context, chatID int64) (models.Chat, error) {
	query, args, err := r.db.builder().
		Select(chatColumns...).
		From(models.Chat{}.TableName()).
		Where(sq.Eq{"chat_id": chatID}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Chat{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var chat models.Chat
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&chat.ChatID, &chat.Title, &chat.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Chat{}, ErrChatNotFound
	case err != nil:
		return models.Chat{}, r.queryError(ctx, "*chatRepository.GetChat", err)
	}

	return chat, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID int64, limit uint64) ([]models.Message, error) {
	query, args, err := r.selectMessages().
		Where(sq.Eq{"m.chat_id": chatID}).
		OrderBy("m.message_id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.queryError(ctx, "*chatRepository.ListMessages", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, limit)
	for rows.Next() {
		msg, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		messages = append(messages, msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	slices.Reverse(messages)
	return messages, nil
}

// CreateMessage stores a message. A chat or author that does not exist makes
// the foreign key fail with a wrapped [ErrExecutingQuery].
func (r *chatRepository) CreateMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	msg.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	query, args, err := r.db.builder().
		Insert(msg.TableName()).
		Columns("chat_id", "user_id", "content", "created_at").
		Values(msg.ChatID, msg.UserID, msg.Content, msg.CreatedAt).
		Suffix("RETURNING message_id").
		ToSql()
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&msg.MessageID); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*chatRepository.CreateMessage").
			Bool("retryable", r.db.classify(err) == Retryable).
			Msg("error inserting message")
		return models.Message{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return msg, nil
}

func (r *chatRepository) GetMessage(ctx context.Context, messageID int64) (models.Message, error) {
	query, args, err := r.selectMessages().
		Where(sq.Eq{"m.message_id": messageID}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Message{}, ErrMessageNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).Str("func", "*chatRepository.GetMessage").Msg("error selecting message")
		return models.Message{}, err
	}

	return msg, nil
}

func (r *chatRepository) DeleteMessage(ctx context.Context, messageID int64) error {
	query, args, err := r.db.builder().
		Delete(models.Message{}.TableName()).
		Where(sq.Eq{"message_id": messageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.queryError(ctx, "*chatRepository.DeleteMessage", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (r *chatRepository) selectMessages() sq.SelectBuilder {
	return r.db.builder().
		Select(messageColumns...).
		From("messages m").
		Join("users u ON u.user_id = m.user_id")
}

// queryError logs a failed query and wraps it in [ErrExecutingQuery].
func (r *chatRepository) queryError(ctx context.Context, fn string, err error) error {
	logger.FromContext(ctx).Err(err).
		Str("func", fn).
		Bool("retryable", r.db.classify(err) == Retryable).
		Msg("error querying chats")
	return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (models.Message, error) {
	var msg models.Message
	err := row.Scan(&msg.MessageID, &msg.ChatID, &msg.UserID, &msg.Username, &msg.Content, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, err
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return msg, nil
}
