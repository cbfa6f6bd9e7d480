// Package outbox relays committed domain events to a message transport.
//
// Units of work store events next to the aggregates that raised them; the
// Worker later reads pending rows, publishes them and marks the outcome.
// Delivery is at least once: a crash between Publish and MarkEventPublished
// sends the event again.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"resort/domain/shared"
)

// Status of a stored event.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusPublished  Status = "PUBLISHED"
	StatusFailed     Status = "FAILED"
)

// Message is a stored event as the worker sees it.
type Message struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     string
	RetryCount  int
	CreatedAt   time.Time
}

// Store is implemented by the MySQL outbox table and the memory store.
type Store interface {
	GetPendingEvents(ctx context.Context, limit int) ([]Message, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error

	// MarkEventFailed returns the event to PENDING until it has failed
	// maxRetries times, then parks it as FAILED.
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error
}

// Publisher delivers one event.
type Publisher interface {
	Publish(ctx context.Context, eventType, payload string) error
}

// Serialize renders the JSON document stored for event: the envelope fields
// plus everything the event exposes through shared.EventPayload.
func Serialize(event shared.DomainEvent) (string, error) {
	data := map[string]any{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn().UTC().Format(time.RFC3339Nano),
	}
	if withPayload, ok := event.(shared.EventPayload); ok {
		for k, v := range withPayload.Payload() {
			if _, reserved := data[k]; !reserved {
				data[k] = v
			}
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// NextStatus is the status after a failed publish that has now failed retryCount times.
func NextStatus(retryCount, maxRetries int) Status {
	if retryCount < maxRetries {
		return StatusPending
	}
	return StatusFailed
}
