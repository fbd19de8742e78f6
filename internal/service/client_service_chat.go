package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/whispee/internal/logger"
	"github.com/MKhiriev/whispee/internal/session"
	"github.com/MKhiriev/whispee/internal/validators"
	"github.com/MKhiriev/whispee/models"
)

type clientChatService struct {
	session  ClientSession
	validate validators.Validator
	logger   *logger.Logger
}

func NewClientChatService(sess ClientSession, validator validators.Validator, logger *logger.Logger) ClientChatService {
	return &clientChatService{
		session:  sess,
		validate: validator,
		logger:   logger,
	}
}

func (c *clientChatService) LoadChats(ctx context.Context) ([]models.Chat, error) {
	outcome, err := c.await(ctx, func() (*session.PendingOperation, error) {
		return c.session.LoadChats(ctx)
	})
	if err != nil {
		return nil, err
	}

	return outcome.Chats, nil
}

func (c *clientChatService) OpenChat(ctx context.Context, chatID int64) (models.OpenedChat, error) {
	if err := c.validate.Validate(ctx, models.ChatQuery{ChatID: chatID}); err != nil {
		return models.OpenedChat{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	outcome, err := c.await(ctx, func() (*session.PendingOperation, error) {
		return c.session.OpenChat(ctx, chatID)
	})
	if err != nil {
		return models.OpenedChat{}, err
	}
	if outcome.Chat == nil {
		return models.OpenedChat{}, fmt.Errorf("%w: %s", ErrChatRequestFailed, session.ReasonMalformedReply)
	}

	return models.OpenedChat{Chat: *outcome.Chat, Messages: outcome.Messages}, nil
}

func (c *clientChatService) Send(ctx context.Context, msg models.OutgoingMessage) (models.Message, error) {
	if err := c.validate.Validate(ctx, msg); err != nil {
		return models.Message{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	outcome, err := c.await(ctx, func() (*session.PendingOperation, error) {
		return c.session.SendMessage(ctx, msg.ChatID, msg.Content)
	})
	if err != nil {
		return models.Message{}, err
	}
	if outcome.Message == nil {
		return models.Message{}, fmt.Errorf("%w: %s", ErrChatRequestFailed, session.ReasonMalformedReply)
	}

	return *outcome.Message, nil
}

func (c *clientChatService) Delete(ctx context.Context, messageID int64) error {
	if err := c.validate.Validate(ctx, models.MessageRef{MessageID: messageID}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	_, err := c.await(ctx, func() (*session.PendingOperation, error) {
		return c.session.DeleteMessage(ctx, messageID)
	})
	return err
}

// await submits a request and waits for its outcome. Anything but success
// is returned as an error carrying the reason.
func (c *clientChatService) await(ctx context.Context, submit func() (*session.PendingOperation, error)) (session.Outcome, error) {
	op, err := submit()
	if err != nil {
		return session.Outcome{}, err
	}

	select {
	case <-op.Done():
	case <-ctx.Done():
		return session.Outcome{}, ctx.Err()
	}

	outcome, _ := op.Outcome()
	if outcome.Status != session.OutcomeSucceeded {
		c.logger.Debug().Str("op", op.Kind.String()).Str("reason", outcome.Reason).Msg("chat request failed")
		return outcome, fmt.Errorf("%w: %s", ErrChatRequestFailed, outcome.Reason)
	}

	return outcome, nil
}
