// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics provides Prometheus metrics for the whispee server.
//
// Labels carry only command names, results and limit types. Session ids,
// usernames and connection ids never become labels.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whispee"

// Command results.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
	ResultRejected  = "rejected"
)

var (
	// CommandsTotal counts handled commands by name and result.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Total number of handled session commands, by command and result.",
	}, []string{"command", "result"})

	// CommandDuration observes how long the server takes to answer a command.
	CommandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_duration_seconds",
		Help:      "Time spent handling a session command, by command.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"command"})

	// DecodeErrorsTotal counts inbound frames that could not be decoded.
	DecodeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decode_errors_total",
		Help:      "Total number of dropped inbound frames, by reason.",
	}, []string{"reason"})

	// RateLimitedTotal counts rejections by limiter.
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_exceeded_total",
		Help:      "Total rate limit rejections, by limit type.",
	}, []string{"limit_type"})

	// ConnectionsTotal counts accepted websocket connections.
	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Total number of accepted websocket connections.",
	})

	// ActiveConnections tracks currently open websocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Current number of open websocket connections.",
	})

	// BroadcastDeliveriesTotal counts pushed chat events handed to readers.
	BroadcastDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_deliveries_total",
		Help:      "Total number of pushed chat events sent to readers, by event.",
	}, []string{"event"})

	// SessionsPurgedTotal counts sessions removed by the cleanup worker.
	SessionsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions removed by the cleanup worker.",
	})
)

// RecordCommand records one handled command.
func RecordCommand(command, result string, elapsed time.Duration) {
	CommandsTotal.WithLabelValues(command, result).Inc()
	CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// RecordDecodeError records a dropped inbound frame.
func RecordDecodeError(reason string) {
	DecodeErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordRateLimited records a rejection by the named limiter.
func RecordRateLimited(limitType string) {
	RateLimitedTotal.WithLabelValues(limitType).Inc()
}

// ConnectionOpened records an accepted websocket connection.
func ConnectionOpened() {
	ConnectionsTotal.Inc()
	ActiveConnections.Inc()
}

// ConnectionClosed records the end of a websocket connection.
func ConnectionClosed() {
	ActiveConnections.Dec()
}

// RecordBroadcast adds the readers of one pushed event.
func RecordBroadcast(event string, readers int) {
	BroadcastDeliveriesTotal.WithLabelValues(event).Add(float64(readers))
}

// RecordSessionsPurged adds n to the purged sessions counter.
func RecordSessionsPurged(n int) {
	if n > 0 {
		SessionsPurgedTotal.Add(float64(n))
	}
}
