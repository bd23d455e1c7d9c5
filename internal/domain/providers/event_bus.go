package providers

import (
	"context"

	"github.com/care4u/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to hospital events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.HospitalEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.HospitalEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelHospitalUpdates carries every hospital status change
	EventChannelHospitalUpdates = "hospital:updates"

	// EventChannelHospitalPrefix is the prefix for per-hospital channels
	EventChannelHospitalPrefix = "hospital:"
)

// GetHospitalChannel returns the channel name for a specific hospital
func GetHospitalChannel(hospitalID string) string {
	return EventChannelHospitalPrefix + hospitalID
}
