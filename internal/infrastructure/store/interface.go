package store

import (
	"context"
	"errors"
)

// ErrNotPublished is returned by Append when the event was stored but could
// not be handed to the publisher. The returned event is valid.
var ErrNotPublished = errors.New("event stored but not published")

// EventReader reads back the events of one aggregate in version order.
type EventReader interface {
	GetEvents(ctx context.Context, aggregateID string) ([]Event, error)
}

// EventStoreInterface defines the interface for event stores
type EventStoreInterface interface {
	EventReader
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
}

// Publisher forwards stored events to a message broker
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
