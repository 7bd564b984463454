package interfaces

import "context"

//go:generate mockgen -source=event_publisher_interface.go -destination=mocks/mock_event_publisher_interface.go -package=mock_interfaces

// IEventPublisher publishes integration events (e.g. to RabbitMQ) for
// downstream consumers outside the booking core.
type IEventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
