// Package messaging defines the contracts used to publish domain events.
package messaging

import (
	"context"
)

// Event is a message that knows its subject and how to encode itself.
type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// Publisher delivers events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ Event) error {
	return nil
}
