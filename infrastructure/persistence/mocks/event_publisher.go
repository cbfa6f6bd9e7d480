package mocks

import (
	"context"
	"sync"
)

// PublishedMessage is one relayed outbox event
type PublishedMessage struct {
	EventType string
	Payload   string
}

// RecordingPublisher records what the outbox worker relays. Set FailWith to
// make every Publish fail.
type RecordingPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	FailWith error
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(_ context.Context, eventType, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailWith != nil {
		return p.FailWith
	}
	p.messages = append(p.messages, PublishedMessage{EventType: eventType, Payload: payload})
	return nil
}

func (p *RecordingPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedMessage(nil), p.messages...)
}
