// Package http implements the HTTP and websocket surface of the whispee
// server.
//
// The websocket endpoint upgrades a request and runs one serialized command
// loop per connection: frames are decoded with the protocol codec, rate
// limited, handed to the auth service and answered with the matching result
// event, echoing the request id. Plain HTTP routes expose the build version
// and Prometheus metrics. Request tracing and access logging are applied to
// every route.
package http
