package dispatch

import (
	"context"
	"log"
	"time"

	"geofence-control-plane/internal/event"
)

// dispatchTimeout is the max time allowed for a single async dispatch.
const dispatchTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the consumer loop stops
// before closing the dispatcher, so in-flight async dispatches can complete.
// Must be >= dispatchTimeout.
const ShutdownDrainDuration = dispatchTimeout

// Async runs Dispatch in a goroutine with a short timeout so message
// processing is never blocked by event delivery. Failures are logged and the
// already-applied state mutation is not rolled back.
//
// d and ev may be nil; Async returns immediately without starting a goroutine.
// The goroutine uses context.Background() so caller cancellation does not
// abort an in-flight dispatch.
func Async(d Dispatcher, ev *event.Event) {
	if d == nil || ev == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := d.Dispatch(ctx, ev); err != nil {
			log.Printf("dispatch: async %s dispatch failed: %v", ev.Kind, err)
		}
	}()
}
