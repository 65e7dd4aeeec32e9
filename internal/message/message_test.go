package message

import (
	"errors"
	"testing"
)

func TestParseTopic(t *testing.T) {
	topic, err := ParseTopic("owntracks/alice/phone")
	if err != nil {
		t.Fatalf("ParseTopic: %v", err)
	}
	if topic.Prefix != "owntracks" {
		t.Errorf("Prefix = %q, want %q", topic.Prefix, "owntracks")
	}
	if topic.User != "alice" {
		t.Errorf("User = %q, want %q", topic.User, "alice")
	}
	if topic.Device != "phone" {
		t.Errorf("Device = %q, want %q", topic.Device, "phone")
	}
	if topic.String() != "owntracks/alice/phone" {
		t.Errorf("String = %q, want original key", topic.String())
	}
}

func TestParseTopic_Malformed(t *testing.T) {
	for _, key := range []string{"", "owntracks", "owntracks/alice", "owntracks//phone", "a/b/c/d"} {
		if _, err := ParseTopic(key); !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("ParseTopic(%q) error = %v, want ErrInvalidMessage", key, err)
		}
	}
}

func TestDecode_Transition(t *testing.T) {
	payload := []byte(`{"_type":"transition","event":"enter","desc":"home","lat":52.1,"lon":4.3,"rad":100,"acc":25,"tst":1700000000}`)

	m, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Type != TypeTransition {
		t.Errorf("Type = %q, want %q", m.Type, TypeTransition)
	}
	if m.Event != EventEnter {
		t.Errorf("Event = %q, want %q", m.Event, EventEnter)
	}
	if m.Desc != "home" {
		t.Errorf("Desc = %q, want %q", m.Desc, "home")
	}
	if m.Accuracy == nil || *m.Accuracy != 25 {
		t.Errorf("Accuracy = %v, want 25", m.Accuracy)
	}
}

func TestDecode_TransitionRequiresDescAndEvent(t *testing.T) {
	cases := []string{
		`{"_type":"transition","event":"enter","lat":52.1,"lon":4.3,"acc":25}`,
		`{"_type":"transition","event":"wander","desc":"home","acc":25}`,
		`{"_type":"transition","desc":"home","acc":25}`,
	}
	for _, payload := range cases {
		if _, err := Decode([]byte(payload)); !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("Decode(%s) error = %v, want ErrInvalidMessage", payload, err)
		}
	}
}

func TestDecode_MissingAccuracyIsNil(t *testing.T) {
	m, err := Decode([]byte(`{"_type":"location","lat":52.1,"lon":4.3,"tst":1}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Accuracy != nil {
		t.Errorf("Accuracy = %v, want nil when absent", m.Accuracy)
	}
}

func TestDecode_LocationDistinguishesAbsentAndEmptyInregions(t *testing.T) {
	m, err := Decode([]byte(`{"_type":"location","lat":52.1,"lon":4.3,"acc":10,"tst":1,"batt":77}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Inregions != nil {
		t.Errorf("Inregions = %v, want nil when the field is absent", m.Inregions)
	}
	if m.Battery == nil || *m.Battery != 77 {
		t.Errorf("Battery = %v, want 77", m.Battery)
	}

	m, err = Decode([]byte(`{"_type":"location","lat":52.1,"lon":4.3,"acc":10,"tst":1,"inregions":[]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Inregions == nil {
		t.Error("Inregions should be non-nil when the field is present and empty")
	}
	if m.Battery != nil {
		t.Errorf("Battery = %v, want nil when absent", m.Battery)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("not json")); !errors.Is(err, ErrInvalidMessage) {
		t.Errorf("Decode error = %v, want ErrInvalidMessage", err)
	}
}

func TestDecode_MissingDiscriminatorIsIgnorable(t *testing.T) {
	m, err := Decode([]byte(`{"lat":52.1,"lon":4.3}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m != nil {
		t.Errorf("Decode = %+v, want nil for a payload without _type", m)
	}
}

func TestDecode_Waypoints(t *testing.T) {
	payload := []byte(`{"_type":"waypoints","waypoints":[{"_type":"waypoint","desc":"home","lat":52.1,"lon":4.3,"rad":100,"tst":5}]}`)

	m, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(m.Waypoints) != 1 {
		t.Fatalf("Waypoints len = %d, want 1", len(m.Waypoints))
	}
	if m.Waypoints[0].Desc != "home" || m.Waypoints[0].Radius != 100 {
		t.Errorf("Waypoints[0] = %+v", m.Waypoints[0])
	}
}
