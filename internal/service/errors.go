package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidCredentials  = errors.New("invalid username or password")

	ErrSessionExpired      = errors.New("session expired")
	ErrTokenCreationFailed = errors.New("session token creation failed")

	ErrNotMessageAuthor  = errors.New("only the author can delete a message")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrChatRequestFailed = errors.New("chat request failed")

	// ErrNoSavedSession is returned by the client when there is no usable
	// token to resume.
	ErrNoSavedSession = errors.New("no saved session")
)
