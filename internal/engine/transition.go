package engine

import (
	"context"
	"log"

	"geofence-control-plane/internal/event"
	geodomain "geofence-control-plane/internal/geofence/domain"
	"geofence-control-plane/internal/message"
	trackerdomain "geofence-control-plane/internal/tracker/domain"
)

// processTransition handles an explicit enter/leave reported by the client.
//
// The named fence is upserted before the accuracy gate so region metadata
// stays fresh even when the transition itself is suppressed or untrusted.
func (e *Engine) processTransition(ctx context.Context, t message.Topic, u *trackerdomain.User, m *message.Message) error {
	if err := e.fences.Upsert(ctx, &geodomain.Fence{
		Name: m.Desc, Lat: m.Lat, Lon: m.Lon, Radius: m.Radius, Timestamp: m.Timestamp,
	}); err != nil {
		return err
	}

	s := e.settings.Current()
	if !isAccurate(m, s) {
		log.Printf("engine: transition for %s dropped, accuracy %v above threshold %d", t.User, m.Accuracy, s.AccuracyThreshold)
		return nil
	}

	accepted := false
	switch m.Event {
	case message.EventEnter:
		// With double-enter suppression on, re-entering the fence the user is
		// already in is a replay and fires nothing.
		if !s.DoubleEnter || u.CurrentFence != m.Desc {
			accepted = true
			u.CurrentFence = m.Desc
			e.emit(ctx, event.NewEnter(u.Name, m.Desc, u.Battery, t.String()))
		} else {
			log.Printf("engine: %s already in fence %s, enter suppressed", t.User, m.Desc)
		}
	case message.EventLeave:
		// With double-leave suppression on, leaving while in no fence is a
		// replay and fires nothing.
		if !s.DoubleLeave || u.CurrentFence != "" {
			accepted = true
			u.CurrentFence = ""
			e.emit(ctx, event.NewLeave(u.Name, m.Desc, u.Battery, t.String()))
		} else {
			log.Printf("engine: %s already outside any fence, leave suppressed", t.User)
		}
	}

	if accepted {
		u.Lat, u.Lon, u.Timestamp = m.Lat, m.Lon, m.Timestamp
		e.emit(ctx, event.NewGeneric(m.Event, u.Name, m.Desc, u.Battery, t.String()))
	}
	return nil
}
