package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/whispee/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldIdentifier = "identifier"
	FieldSessionID  = "session_id"
)

// Length bounds of the credential fields, in characters.
const (
	UsernameMinLen   = 4
	UsernameMaxLen   = 32
	EmailMinLen      = 7
	EmailMaxLen      = 30
	PasswordMinLen   = 7
	PasswordMaxLen   = 30
	IdentifierMinLen = 4
	IdentifierMaxLen = 32
)

// CredentialsValidator validates the credential payloads of the session
// protocol.
type CredentialsValidator struct{}

// NewCredentialsValidator returns a [Validator] for [models.LoginCredentials],
// [models.RegisterCredentials], [models.SessionCredentials] and
// [models.IdentifierQuery], by value or pointer.
func NewCredentialsValidator() Validator {
	return &CredentialsValidator{}
}

// Validate implements [Validator].
func (v *CredentialsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.LoginCredentials:
		return v.validateLogin(value, fields...)
	case *models.LoginCredentials:
		return v.validateLogin(*value, fields...)

	case models.RegisterCredentials:
		return v.validateRegister(value, fields...)
	case *models.RegisterCredentials:
		return v.validateRegister(*value, fields...)

	case models.SessionCredentials:
		return v.validateSession(value, fields...)
	case *models.SessionCredentials:
		return v.validateSession(*value, fields...)

	case models.IdentifierQuery:
		return v.validateIdentifier(value.Identifier, fields...)
	case *models.IdentifierQuery:
		return v.validateIdentifier(value.Identifier, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *CredentialsValidator) validateLogin(creds models.LoginCredentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdentifier, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldIdentifier:
			if err := v.validateIdentifier(creds.Identifier); err != nil {
				return err
			}
		case FieldPassword:
			if !lengthBetween(creds.Password, PasswordMinLen, PasswordMaxLen) {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateRegister(creds models.RegisterCredentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if !lengthBetween(creds.Username, UsernameMinLen, UsernameMaxLen) || models.IsEmailIdentifier(creds.Username) {
				return ErrInvalidUsername
			}
		case FieldEmail:
			if !lengthBetween(creds.Email, EmailMinLen, EmailMaxLen) || !validEmail(creds.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if !lengthBetween(creds.Password, PasswordMinLen, PasswordMaxLen) {
				return ErrInvalidPassword
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateSession(creds models.SessionCredentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSessionID}
	}

	for _, f := range fields {
		switch f {
		case FieldSessionID:
			if strings.TrimSpace(creds.SessionID) == "" {
				return ErrEmptySessionID
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *CredentialsValidator) validateIdentifier(identifier string, fields ...string) error {
	for _, f := range fields {
		if f != FieldIdentifier {
			return ErrUnknownField
		}
	}

	if !lengthBetween(identifier, IdentifierMinLen, IdentifierMaxLen) {
		return ErrInvalidIdentifier
	}
	if models.IsEmailIdentifier(identifier) && !validEmail(identifier) {
		return ErrInvalidIdentifier
	}

	return nil
}

func lengthBetween(s string, lo, hi int) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	n := utf8.RuneCountInString(s)
	return n >= lo && n <= hi
}

// validEmail only checks the shape "local@domain" with exactly one @.
func validEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.Contains(domain, "@") && !strings.ContainsAny(email, " \t")
}
