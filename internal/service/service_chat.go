package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/store"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

// OpenChatHistory is how many of the latest messages OpenChat returns.
const OpenChatHistory = 50

type chatService struct {
	chats    store.ChatRepository
	validate validators.Validator
	logger   *logger.Logger
}

func NewChatService(chats store.ChatRepository, validator validators.Validator, logger *logger.Logger) ChatService {
	return &chatService{
		chats:    chats,
		validate: validator,
		logger:   logger,
	}
}

func (c *chatService) ListChats(ctx context.Context) ([]models.Chat, error) {
	chats, err := c.chats.ListChats(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("chat list failed")
		return nil, fmt.Errorf("chat list failed: %w", err)
	}
	return chats, nil
}

// OpenChat returns a wrapped store.ErrChatNotFound for an unknown chat.
func (c *chatService) OpenChat(ctx context.Context, chatID int64) (models.OpenedChat, error) {
	log := logger.FromContext(ctx)

	if err := c.validate.Validate(ctx, models.ChatQuery{ChatID: chatID}); err != nil {
		return models.OpenedChat{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	chat, err := c.chats.GetChat(ctx, chatID)
	if err != nil {
		log.Debug().Err(err).Int64("chat_id", chatID).Msg("chat lookup failed")
		return models.OpenedChat{}, fmt.Errorf("chat lookup failed: %w", err)
	}

	messages, err := c.chats.ListMessages(ctx, chatID, OpenChatHistory)
	if err != nil {
		log.Err(err).Int64("chat_id", chatID).Msg("message history failed")
		return models.OpenedChat{}, fmt.Errorf("message history failed: %w", err)
	}

	return models.OpenedChat{Chat: chat, Messages: messages}, nil
}

// SendMessage validates msg, checks the chat exists and stores the message.
// The returned message carries the author's username.
func (c *chatService) SendMessage(ctx context.Context, author models.Identity, msg models.OutgoingMessage) (models.Message, error) {
	log := logger.FromContext(ctx)

	if err := c.validate.Validate(ctx, msg); err != nil {
		log.Debug().Err(err).Int64("user_id", author.UserID).Msg("invalid message")
		return models.Message{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if _, err := c.chats.GetChat(ctx, msg.ChatID); err != nil {
		log.Debug().Err(err).Int64("chat_id", msg.ChatID).Msg("chat lookup failed")
		return models.Message{}, fmt.Errorf("chat lookup failed: %w", err)
	}

	stored, err := c.chats.CreateMessage(ctx, models.Message{
		ChatID:  msg.ChatID,
		UserID:  author.UserID,
		Content: msg.Content,
	})
	if err != nil {
		log.Err(err).Int64("chat_id", msg.ChatID).Msg("message creation failed")
		return models.Message{}, fmt.Errorf("message creation failed: %w", err)
	}
	stored.Username = author.Username

	log.Debug().Int64("chat_id", stored.ChatID).Int64("message_id", stored.MessageID).Msg("message sent")
	return stored, nil
}

func (c *chatService) DeleteMessage(ctx context.Context, author models.Identity, ref models.MessageRef) (models.Message, error) {
	log := logger.FromContext(ctx)

	if err := c.validate.Validate(ctx, ref); err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	msg, err := c.chats.GetMessage(ctx, ref.MessageID)
	if err != nil {
		log.Debug().Err(err).Int64("message_id", ref.MessageID).Msg("message lookup failed")
		return models.Message{}, fmt.Errorf("message lookup failed: %w", err)
	}

	if msg.UserID != author.UserID {
		log.Info().
			Int64("message_id", msg.MessageID).
			Int64("user_id", author.UserID).
			Msg("delete of a foreign message refused")
		return models.Message{}, ErrNotMessageAuthor
	}

	if err = c.chats.DeleteMessage(ctx, msg.MessageID); err != nil {
		log.Err(err).Int64("message_id", msg.MessageID).Msg("message deletion failed")
		return models.Message{}, fmt.Errorf("message deletion failed: %w", err)
	}

	return msg, nil
}
