// Package delivery holds the entry points that drive the use cases: the HTTP API,
// the Pub/Sub push worker and the periodic scheduler.
package delivery

import "context"

// Delivery is a long-running entry point started by the cmd binaries.
type Delivery interface {
	// Serve blocks until the delivery stops or fails to start.
	Serve(ctx context.Context) error
}
