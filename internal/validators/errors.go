package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUsername   = errors.New("username must be 4 to 32 characters")
	ErrInvalidEmail      = errors.New("email must be 7 to 30 characters and contain @")
	ErrInvalidPassword   = errors.New("password must be 7 to 30 characters")
	ErrInvalidIdentifier = errors.New("username or email must be 4 to 32 characters")
	ErrEmptySessionID    = errors.New("session id is required")

	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessageTooLong   = errors.New("message must be at most 2000 characters")
	ErrInvalidChatID    = errors.New("chat id is required")
	ErrInvalidMessageID = errors.New("message id is required")
)
