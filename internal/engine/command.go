package engine

import (
	"context"
	"errors"
	"fmt"

	"geofence-control-plane/internal/message"
)

// ErrBuildCommand is returned when a device command cannot be assembled from
// the fence registry. Not fatal to the engine; the caller decides whether to
// surface it.
var ErrBuildCommand = errors.New("build command failed")

// ActionSetWaypoints syncs the full fence registry to a device.
const ActionSetWaypoints = "setWaypoints"

// BuildCommand assembles a device-addressed command. For setWaypoints the
// whole fence registry is serialized as waypoint descriptors; an empty
// registry yields a well-formed empty-waypoints command. Unknown actions
// return an empty command and no error.
func (e *Engine) BuildCommand(ctx context.Context, action string) (*message.Command, error) {
	if action != ActionSetWaypoints {
		return &message.Command{}, nil
	}
	fences, err := e.fences.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildCommand, err)
	}
	wps := make([]message.Waypoint, 0, len(fences))
	for _, f := range fences {
		wps = append(wps, message.Waypoint{
			Type:      message.TypeWaypoint,
			Desc:      f.Name,
			Lat:       f.Lat,
			Lon:       f.Lon,
			Radius:    f.Radius,
			Timestamp: f.Timestamp,
		})
	}
	return &message.Command{
		Type:   message.TypeCmd,
		Action: ActionSetWaypoints,
		Waypoints: &message.WaypointList{
			Type:      message.TypeWaypoints,
			Waypoints: wps,
		},
	}, nil
}
