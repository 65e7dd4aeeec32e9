// Package dispatch delivers geofence events to the automation layer (e.g.
// Kafka or OTel Logs).
package dispatch

import (
	"context"

	"geofence-control-plane/internal/event"
)

// Dispatcher delivers a single geofence event. Callers use it best-effort:
// log and ignore errors, never retry or roll back state.
type Dispatcher interface {
	// Dispatch sends one event. Implementations may block briefly; call via
	// Async from message-processing paths.
	Dispatch(ctx context.Context, ev *event.Event) error
	// Close releases resources (e.g. a Kafka writer). Safe to call if already closed.
	Close() error
}
