// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrEncoding matches every [*EncodingError].
	ErrEncoding = errors.New("protocol encoding error")

	// ErrDecode matches every [*DecodeError].
	ErrDecode = errors.New("protocol decode error")

	// ErrUnknownType matches a [*DecodeError] caused by an unrecognised
	// discriminator.
	ErrUnknownType = errors.New("unknown message type")

	// ErrMissingField is wrapped when a required payload field is empty.
	ErrMissingField = errors.New("missing required field")
)

// EncodingError is returned when a message cannot be turned into bytes.
type EncodingError struct {
	// Message is the discriminator of the message being encoded.
	Message string
	// Field is the offending payload field, if any.
	Field string
	Err   error
}

func (e *EncodingError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("encode %s: field %q: %v", e.Message, e.Field, e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Message, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrEncoding) match any EncodingError.
func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// DecodeReason classifies a [DecodeError].
type DecodeReason int

const (
	// ReasonMalformed means the bytes are not a valid envelope or the data
	// does not have the shape its discriminator requires.
	ReasonMalformed DecodeReason = iota
	// ReasonUnknownType means the discriminator is not recognised.
	ReasonUnknownType
)

// String implements fmt.Stringer.
func (r DecodeReason) String() string {
	if r == ReasonUnknownType {
		return "unknown type"
	}
	return "malformed"
}

// DecodeError is returned when inbound bytes cannot be turned into a typed
// message. It is always safe to log and drop.
type DecodeError struct {
	Reason DecodeReason
	// Discriminator is the command or type name found in the envelope, if
	// the envelope itself could be parsed.
	Discriminator string
	// ID is the request id found in the envelope, if any.
	ID  string
	Err error

	known bool
}

// Recognised reports whether the envelope was readable and its
// discriminator known, so that the frame can still be answered or matched
// to a request.
func (e *DecodeError) Recognised() bool {
	return e.known
}

func (e *DecodeError) Error() string {
	if e.Discriminator != "" {
		return fmt.Sprintf("decode %q: %s: %v", e.Discriminator, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrDecode for every DecodeError and ErrUnknownType
// for the unknown-discriminator case.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return true
	case ErrUnknownType:
		return e.Reason == ReasonUnknownType
	}
	return false
}

func malformed(discriminator string, err error) *DecodeError {
	return &DecodeError{Reason: ReasonMalformed, Discriminator: discriminator, Err: err}
}

// invalidPayload reports a frame whose discriminator is known but whose data
// does not fit it.
func invalidPayload(env Envelope, discriminator string, err error) *DecodeError {
	return &DecodeError{Reason: ReasonMalformed, Discriminator: discriminator, ID: env.ID, Err: err, known: true}
}

func missingField(message, field string) *EncodingError {
	return &EncodingError{Message: message, Field: field, Err: ErrMissingField}
}
