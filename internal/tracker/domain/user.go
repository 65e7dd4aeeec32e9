package domain

// User is the mutable per-tracker record, keyed by the user part of the
// routing key "<prefix>/<user>/<device>".
type User struct {
	Name      string
	DeviceID  string
	Lat       float64
	Lon       float64
	Timestamp int64
	// CurrentFence is the name of the fence the user is in; empty string means
	// not inside any known fence. Only the transition and reconciliation paths
	// may change it.
	CurrentFence string
	// Battery is the last reported battery percentage; nil until a location
	// message carries one.
	Battery *int
	// TrackerID is the opaque client-supplied tag (tid).
	TrackerID string
	// InregionsSupported is set once the client is seen sending a
	// region-membership snapshot and is never reset; after that, a location
	// message without a snapshot means "not inside any region".
	InregionsSupported bool
}
