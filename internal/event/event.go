// Package event defines the geofence events emitted to the automation layer.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the four outbound event kinds.
type Kind string

const (
	KindEnter   Kind = "enter"
	KindLeave   Kind = "leave"
	KindBattery Kind = "battery"
	// KindGeneric is the catch-all event fired once per accepted transition,
	// explicit or synthesized, alongside the enter/leave event.
	KindGeneric Kind = "generic"
)

// Tokens are the user-facing substitution values handed to the automation
// trigger (e.g. for message templates).
type Tokens struct {
	// Event is "enter" or "leave"; set on generic events only.
	Event   string `json:"event,omitempty"`
	User    string `json:"user"`
	Fence   string `json:"fence"`
	Battery *int   `json:"percBattery,omitempty"`
}

// State carries correlation data for the triggering call.
type State struct {
	SourceTopic  string `json:"sourceTopic"`
	TriggerFence string `json:"triggerFence,omitempty"`
	Battery      *int   `json:"percBattery,omitempty"`
	User         string `json:"user,omitempty"`
}

// Event is a fire-and-forget fact emitted outward; it is never stored by the
// engine itself.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Tokens    Tokens    `json:"tokens"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEnter builds an enter event for the given user and fence.
func NewEnter(user, fence string, battery *int, sourceTopic string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Kind:      KindEnter,
		Tokens:    Tokens{User: user, Fence: fence, Battery: battery},
		State:     State{SourceTopic: sourceTopic, TriggerFence: fence},
		CreatedAt: time.Now().UTC(),
	}
}

// NewLeave builds a leave event. fence names the fence as reported by the
// client; synthesized leaves carry an empty fence.
func NewLeave(user, fence string, battery *int, sourceTopic string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Kind:      KindLeave,
		Tokens:    Tokens{User: user, Fence: fence, Battery: battery},
		State:     State{SourceTopic: sourceTopic, TriggerFence: fence},
		CreatedAt: time.Now().UTC(),
	}
}

// NewBattery builds a battery event. fence is the user's current fence at the
// time of the report.
func NewBattery(user, fence string, battery *int, sourceTopic string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Kind:      KindBattery,
		Tokens:    Tokens{User: user, Fence: fence, Battery: battery},
		State:     State{SourceTopic: sourceTopic, Battery: battery, User: user},
		CreatedAt: time.Now().UTC(),
	}
}

// NewGeneric builds the catch-all event for an accepted transition.
// transition is "enter" or "leave".
func NewGeneric(transition, user, fence string, battery *int, sourceTopic string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Kind:      KindGeneric,
		Tokens:    Tokens{Event: transition, User: user, Fence: fence, Battery: battery},
		State:     State{SourceTopic: sourceTopic, TriggerFence: fence},
		CreatedAt: time.Now().UTC(),
	}
}
