// Package engine is the geofence transition and reconciliation core. It
// classifies inbound tracker messages, keeps per-user fence state, and emits
// deduplicated enter/leave/battery events to the dispatcher.
package engine

import (
	"context"
	"log"
	"sync"

	"geofence-control-plane/internal/dispatch"
	"geofence-control-plane/internal/event"
	geodomain "geofence-control-plane/internal/geofence/domain"
	georepo "geofence-control-plane/internal/geofence/repository"
	"geofence-control-plane/internal/message"
	"geofence-control-plane/internal/settings"
	trackerdomain "geofence-control-plane/internal/tracker/domain"
	trackerrepo "geofence-control-plane/internal/tracker/repository"
)

// Engine processes one inbound message at a time per user. Messages for
// different users may be processed concurrently; the fence registry is the
// only state shared across users.
type Engine struct {
	users      trackerrepo.Store
	fences     georepo.Registry
	settings   *settings.Store
	dispatcher dispatch.Dispatcher

	// emit delivers one event; defaults to fire-and-forget async dispatch.
	// Tests replace it to capture events synchronously.
	emit func(ctx context.Context, ev *event.Event)

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// New returns an Engine over the given stores, live settings, and dispatcher.
// dispatcher may be nil; events are then dropped (and still logged).
func New(users trackerrepo.Store, fences georepo.Registry, st *settings.Store, dispatcher dispatch.Dispatcher) *Engine {
	e := &Engine{
		users:      users,
		fences:     fences,
		settings:   st,
		dispatcher: dispatcher,
		userLocks:  make(map[string]*sync.Mutex),
	}
	e.emit = func(_ context.Context, ev *event.Event) {
		log.Printf("engine: dispatch %s event for %s (fence %q)", ev.Kind, ev.Tokens.User, ev.Tokens.Fence)
		dispatch.Async(e.dispatcher, ev)
	}
	return e
}

// HandleMessage processes one payload published on the given routing key.
//
// Malformed routing keys or payloads return message.ErrInvalidMessage with no
// state change and no events. Ignorable payloads (no discriminator, unhandled
// types) return nil. Any other error is a storage failure; the engine stays
// usable for the next message regardless.
func (e *Engine) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	t, err := message.ParseTopic(topic)
	if err != nil {
		return err
	}
	m, err := message.Decode(payload)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}

	unlock := e.lockUser(t.User)
	defer unlock()

	u, err := e.resolveUser(ctx, t)
	if err != nil {
		return err
	}

	switch m.Type {
	case message.TypeTransition:
		err = e.processTransition(ctx, t, u, m)
	case message.TypeLocation:
		err = e.reconcileLocation(ctx, t, u, m)
	case message.TypeWaypoint:
		err = e.fences.Upsert(ctx, &geodomain.Fence{
			Name: m.Desc, Lat: m.Lat, Lon: m.Lon, Radius: m.Radius, Timestamp: m.Timestamp,
		})
	case message.TypeWaypoints:
		for i := range m.Waypoints {
			wp := &m.Waypoints[i]
			if wp.Desc == "" {
				continue
			}
			if err = e.fences.Upsert(ctx, &geodomain.Fence{
				Name: wp.Desc, Lat: wp.Lat, Lon: wp.Lon, Radius: wp.Radius, Timestamp: wp.Timestamp,
			}); err != nil {
				break
			}
		}
	case message.TypeBeacon:
		log.Printf("engine: beacon from %s: uuid=%s major=%d minor=%d rssi=%d prox=%d",
			t.User, m.UUID, m.Major, m.Minor, m.RSSI, m.Proximity)
	default:
		// encrypted and cmd payloads carry no engine behavior yet.
	}
	if err != nil {
		return err
	}

	return e.users.Save(ctx, u)
}

// resolveUser loads or creates the user record for the routing key. A known
// user publishing from a new device has its device updated in place.
func (e *Engine) resolveUser(ctx context.Context, t message.Topic) (*trackerdomain.User, error) {
	u, err := e.users.Get(ctx, t.User)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return &trackerdomain.User{Name: t.User, DeviceID: t.Device}, nil
	}
	if u.DeviceID != t.Device {
		log.Printf("engine: device changed for user %s to %s", t.User, t.Device)
		u.DeviceID = t.Device
	}
	return u, nil
}

// lockUser serializes message processing per user so the read-then-write of
// CurrentFence stays atomic. Returns the unlock function.
func (e *Engine) lockUser(name string) func() {
	e.mu.Lock()
	l, ok := e.userLocks[name]
	if !ok {
		l = &sync.Mutex{}
		e.userLocks[name] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// isAccurate reports whether the position fix is trustworthy enough to drive
// fence transitions. A missing accuracy field never is.
func isAccurate(m *message.Message, s settings.Settings) bool {
	return m.Accuracy != nil && *m.Accuracy <= float64(s.AccuracyThreshold)
}
