package server

import "context"

// Server defines the lifecycle contract of the whispee server.
type Server interface {
	// Run serves until ctx is cancelled or a stop signal arrives, then shuts
	// down gracefully. It returns the first fatal error, if any.
	Run(ctx context.Context) error
}
