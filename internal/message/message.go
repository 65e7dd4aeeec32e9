// Package message decodes tracker payloads and routing keys into typed values.
//
// The wire format follows the OwnTracks JSON payloads: every payload carries a
// "_type" discriminator and only the fields relevant to that type. Payloads
// without a discriminator are ignorable, not invalid.
package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMessage is returned when a payload cannot be decoded or a routing
// key is malformed. The caller logs and drops the message.
var ErrInvalidMessage = errors.New("invalid message")

// Message types as carried in the "_type" field.
const (
	TypeLocation   = "location"
	TypeTransition = "transition"
	TypeWaypoint   = "waypoint"
	TypeWaypoints  = "waypoints"
	TypeBeacon     = "beacon"
	TypeEncrypted  = "encrypted"
	TypeCmd        = "cmd"
)

// Transition events.
const (
	EventEnter = "enter"
	EventLeave = "leave"
)

// Topic is the parsed routing key "<prefix>/<user>/<device>".
type Topic struct {
	Prefix string
	User   string
	Device string
}

// String reassembles the routing key.
func (t Topic) String() string {
	return t.Prefix + "/" + t.User + "/" + t.Device
}

// ParseTopic splits a routing key into prefix, user, and device parts.
// Returns ErrInvalidMessage if the key does not have exactly three segments
// or the user segment is empty.
func ParseTopic(s string) (Topic, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[1] == "" {
		return Topic{}, fmt.Errorf("%w: routing key %q", ErrInvalidMessage, s)
	}
	return Topic{Prefix: parts[0], User: parts[1], Device: parts[2]}, nil
}

// Waypoint is a fence definition as published by the tracking client.
type Waypoint struct {
	Type      string  `json:"_type,omitempty"`
	Desc      string  `json:"desc"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Radius    float64 `json:"rad"`
	Timestamp int64   `json:"tst"`
}

// Message is the decoded payload. Type discriminates which fields are
// meaningful; the rest stay at their zero values.
type Message struct {
	Type string `json:"_type"`

	// Position fields (location, transition, beacon).
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Timestamp int64   `json:"tst"`
	// Accuracy is the client-reported confidence radius in meters; smaller is
	// more trustworthy. nil means the client did not report one, which never
	// passes the accuracy gate.
	Accuracy *float64 `json:"acc"`

	// Location-only fields.
	Battery   *int   `json:"batt"`
	TrackerID string `json:"tid"`
	// Inregions is the region-membership snapshot. nil means the field was
	// absent; a non-nil empty slice means the client reported an empty list.
	Inregions []string `json:"inregions"`

	// Transition and waypoint fields.
	Desc   string  `json:"desc"`
	Radius float64 `json:"rad"`
	Event  string  `json:"event"`

	// Waypoints message.
	Waypoints []Waypoint `json:"waypoints"`

	// Beacon fields, logged only.
	UUID      string `json:"uuid"`
	Major     int    `json:"major"`
	Minor     int    `json:"minor"`
	RSSI      int    `json:"rssi"`
	Proximity int    `json:"prox"`
}

// Decode parses a payload into a Message.
//
// A payload that is not valid JSON returns ErrInvalidMessage. A valid payload
// without a "_type" discriminator returns (nil, nil): some payloads are
// ignorable and dropping them is not an error. Per-type required fields are
// checked here so downstream logic never sees a half-formed message.
func Decode(payload []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if m.Type == "" {
		return nil, nil
	}
	switch m.Type {
	case TypeTransition:
		if m.Desc == "" {
			return nil, fmt.Errorf("%w: transition without desc", ErrInvalidMessage)
		}
		if m.Event != EventEnter && m.Event != EventLeave {
			return nil, fmt.Errorf("%w: transition event %q", ErrInvalidMessage, m.Event)
		}
	case TypeWaypoint:
		if m.Desc == "" {
			return nil, fmt.Errorf("%w: waypoint without desc", ErrInvalidMessage)
		}
	}
	return &m, nil
}

// WaypointList is the "waypoints" container inside a device command.
type WaypointList struct {
	Type      string     `json:"_type"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Command is a device-addressed command envelope, published back to the
// tracking client to sync its fence definitions.
type Command struct {
	Type      string        `json:"_type"`
	Action    string        `json:"action"`
	Waypoints *WaypointList `json:"waypoints,omitempty"`
}
