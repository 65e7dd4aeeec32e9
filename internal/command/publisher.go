// Package command publishes device-addressed command messages back to the
// transport so tracking clients can sync their fence definitions.
package command

import (
	"context"

	"geofence-control-plane/internal/message"
)

// Publisher delivers one command to a device. Delivery to the phone itself is
// the transport bridge's concern; the engine only hands the envelope off.
type Publisher interface {
	// Publish sends cmd addressed to the device behind the given user/device
	// routing-key pair.
	Publish(ctx context.Context, user, device string, cmd *message.Command) error
	// Close releases resources. Safe to call if already closed.
	Close() error
}
