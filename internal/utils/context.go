// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, HTTP client initialization, session token
// generation and validation, and id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// ConnIDCtxKey is the key used to store the websocket connection id of the
// command being handled.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.ConnIDCtxKey, "0190c8e4-...")
var ConnIDCtxKey = contextKey("connID")

// GetConnIDFromContext retrieves the websocket connection id from the
// context.
//
// Returns the id and an ok flag:
//   - ok == true : value is found and is a string
//   - ok == false: value is missing or has an unexpected type
func GetConnIDFromContext(ctx context.Context) (string, bool) {
	connID, ok := ctx.Value(ConnIDCtxKey).(string)
	return connID, ok
}
