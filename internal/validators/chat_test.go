package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/MKhiriev/whispee/models"
	"github.com/stretchr/testify/assert"
)

func TestValidate_ChatMessage(t *testing.T) {
	v := NewChatValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{"message ok", models.OutgoingMessage{ChatID: 1, Content: "hello"}, nil, nil},
		{"pointer ok", &models.OutgoingMessage{ChatID: 1, Content: "hello"}, nil, nil},
		{"longest message", models.OutgoingMessage{ChatID: 1, Content: strings.Repeat("ж", models.MaxMessageLength)}, nil, nil},
		{"blank content", models.OutgoingMessage{ChatID: 1, Content: "  \n "}, nil, ErrEmptyMessage},
		{"too long", models.OutgoingMessage{ChatID: 1, Content: strings.Repeat("x", models.MaxMessageLength+1)}, nil, ErrMessageTooLong},
		{"no chat", models.OutgoingMessage{Content: "hello"}, nil, ErrInvalidChatID},
		{"content only", models.OutgoingMessage{Content: "hello"}, []string{FieldContent}, nil},
		{"unknown field", models.OutgoingMessage{ChatID: 1, Content: "hello"}, []string{"title"}, ErrUnknownField},
		{"chat query ok", models.ChatQuery{ChatID: 3}, nil, nil},
		{"chat query zero", &models.ChatQuery{}, nil, ErrInvalidChatID},
		{"message ref ok", models.MessageRef{MessageID: 9}, nil, nil},
		{"message ref negative", models.MessageRef{MessageID: -1}, nil, ErrInvalidMessageID},
		{"unsupported", models.LoginCredentials{}, nil, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
