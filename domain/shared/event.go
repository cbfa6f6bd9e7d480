package shared

import (
	"fmt"
	"time"
)

// DomainEvent is something that happened inside an aggregate.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventPayload is implemented by events that carry data beyond the envelope.
// The outbox serializer merges Payload into the stored JSON document.
type EventPayload interface {
	Payload() map[string]any
}

// ValidateEvent rejects events that cannot be stored in the outbox.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
