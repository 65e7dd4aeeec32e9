package dispatch

import (
	"context"
	"errors"

	"geofence-control-plane/internal/event"
)

// Fanout dispatches every event to each of its dispatchers. A failure in one
// sink does not stop delivery to the others.
type Fanout []Dispatcher

// NewFanout returns a Fanout over the non-nil dispatchers. Returns nil when
// none are given so the caller can treat dispatch as disabled.
func NewFanout(ds ...Dispatcher) Fanout {
	var out Fanout
	for _, d := range ds {
		if d != nil {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Dispatch delivers the event to every sink, joining any errors.
func (f Fanout) Dispatch(ctx context.Context, ev *event.Event) error {
	var errs []error
	for _, d := range f {
		if err := d.Dispatch(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, joining any errors.
func (f Fanout) Close() error {
	var errs []error
	for _, d := range f {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
