package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/whispee/models"
)

// Field names of the chat payloads.
const (
	FieldChatID    = "chat_id"
	FieldContent   = "content"
	FieldMessageID = "message_id"
)

// ChatValidator validates the chat payloads of the session protocol.
type ChatValidator struct{}

// NewChatValidator returns a [Validator] for [models.OutgoingMessage],
// [models.ChatQuery] and [models.MessageRef], by value or pointer.
func NewChatValidator() Validator {
	return &ChatValidator{}
}

// Validate implements [Validator].
func (v *ChatValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.OutgoingMessage:
		return v.validateMessage(value, fields...)
	case *models.OutgoingMessage:
		return v.validateMessage(*value, fields...)

	case models.ChatQuery:
		return v.validateChatID(value.ChatID, fields...)
	case *models.ChatQuery:
		return v.validateChatID(value.ChatID, fields...)

	case models.MessageRef:
		if value.MessageID <= 0 {
			return ErrInvalidMessageID
		}
		return nil
	case *models.MessageRef:
		if value.MessageID <= 0 {
			return ErrInvalidMessageID
		}
		return nil

	default:
		return ErrUnsupportedType
	}
}

func (v *ChatValidator) validateMessage(msg models.OutgoingMessage, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChatID, FieldContent}
	}

	for _, f := range fields {
		switch f {
		case FieldChatID:
			if err := v.validateChatID(msg.ChatID); err != nil {
				return err
			}
		case FieldContent:
			if strings.TrimSpace(msg.Content) == "" {
				return ErrEmptyMessage
			}
			if utf8.RuneCountInString(msg.Content) > models.MaxMessageLength {
				return ErrMessageTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ChatValidator) validateChatID(chatID int64, fields ...string) error {
	for _, f := range fields {
		if f != FieldChatID {
			return ErrUnknownField
		}
	}

	if chatID <= 0 {
		return ErrInvalidChatID
	}
	return nil
}
