package engine

import (
	"context"
	"log"
	"slices"

	"geofence-control-plane/internal/event"
	"geofence-control-plane/internal/message"
	trackerdomain "geofence-control-plane/internal/tracker/domain"
)

// reconcileLocation handles a periodic position report. Position, tracker id,
// and battery update unconditionally; the region-membership snapshot is then
// compared against stored state to synthesize enter/leave events the client
// never reported (missed leave on network loss, blind enter from a snapshot).
func (e *Engine) reconcileLocation(ctx context.Context, t message.Topic, u *trackerdomain.User, m *message.Message) error {
	u.Lat, u.Lon, u.Timestamp = m.Lat, m.Lon, m.Timestamp
	u.TrackerID = m.TrackerID

	if m.Battery != nil {
		batt := *m.Battery
		u.Battery = &batt
		// Battery reporting is independent of position trust: not accuracy-gated.
		e.emit(ctx, event.NewBattery(u.Name, u.CurrentFence, u.Battery, t.String()))
	}

	s := e.settings.Current()
	if !s.UseInregions {
		return nil
	}

	if m.Inregions == nil {
		// No snapshot from a client known to send them means "not inside any
		// region": a leave we may have missed.
		if u.InregionsSupported && u.CurrentFence != "" && isAccurate(m, s) {
			log.Printf("engine: %s reports no regions but is stored in %s, synthesizing leave", u.Name, u.CurrentFence)
			e.syntheticLeave(ctx, t, u)
		}
		return nil
	}

	// Once a client is seen sending snapshots, their absence becomes meaningful.
	u.InregionsSupported = true

	if slices.Contains(m.Inregions, u.CurrentFence) {
		return nil
	}
	if !isAccurate(m, s) {
		return nil
	}

	if u.CurrentFence != "" {
		log.Printf("engine: %s is stored in %s but reports %v, synthesizing leave", u.Name, u.CurrentFence, m.Inregions)
		e.syntheticLeave(ctx, t, u)
	}
	if u.CurrentFence == "" && len(m.Inregions) > 0 {
		// Blind enter: the snapshot may carry several regions; first-wins.
		u.CurrentFence = m.Inregions[0]
		log.Printf("engine: %s is not stored in a fence but reports %v, synthesizing enter for %s", u.Name, m.Inregions, u.CurrentFence)
		e.emit(ctx, event.NewEnter(u.Name, u.CurrentFence, u.Battery, t.String()))
		e.emit(ctx, event.NewGeneric(message.EventEnter, u.Name, u.CurrentFence, u.Battery, t.String()))
	}
	return nil
}

// syntheticLeave clears the stored fence and emits leave + generic events with
// an empty fence token. Callers only invoke it when CurrentFence is set.
func (e *Engine) syntheticLeave(ctx context.Context, t message.Topic, u *trackerdomain.User) {
	u.CurrentFence = ""
	e.emit(ctx, event.NewLeave(u.Name, "", u.Battery, t.String()))
	e.emit(ctx, event.NewGeneric(message.EventLeave, u.Name, "", u.Battery, t.String()))
}
