// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package protocol implements the wire format spoken over the whispee
// websocket.
//
// Every frame carries exactly one JSON [Envelope]. Frames sent by the client
// are discriminated by "command", frames sent by the server by "type"; the
// discriminator fully determines the shape of "data":
//
//	{"command":"login_user","data":{"identifier":"alice","password":"..."}}
//	{"type":"login_result","data":{"success":true,"user":{...},"session_id":"..."}}
//
// The package is stateless. [EncodeCommand] and [DecodeEvent] are used by the
// client, [DecodeCommand] and [EncodeEvent] by the server. Decoding never
// panics on unexpected input; it returns a [*DecodeError] that callers log and
// drop.
package protocol
