// Package server runs the whispee server: the HTTP listener carrying the
// websocket endpoint and the background workers.
//
// Run blocks until SIGINT, SIGTERM or SIGQUIT arrives or its context is
// cancelled, then shuts the listener down within the configured timeout and
// closes every open websocket connection.
package server
