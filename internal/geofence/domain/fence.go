package domain

// Fence is a named circular region a device can be inside or outside of.
// Fences are upserted by name from transition, waypoint, and waypoints
// messages; this engine never deletes them.
type Fence struct {
	Name      string
	Lat       float64
	Lon       float64
	Radius    float64
	Timestamp int64
}
