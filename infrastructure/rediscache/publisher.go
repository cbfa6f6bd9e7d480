package rediscache

import (
	"context"
	"fmt"

	"resort/infrastructure/outbox"

	"github.com/redis/go-redis/v9"
)

// Publisher relays outbox events to the channel "<prefix>.<event type>".
type Publisher struct {
	client redis.Cmdable
	prefix string
}

func NewPublisher(client redis.Cmdable, prefix string) *Publisher {
	return &Publisher{client: client, prefix: prefix}
}

func (p *Publisher) Channel(eventType string) string {
	if p.prefix == "" {
		return eventType
	}
	return p.prefix + "." + eventType
}

func (p *Publisher) Publish(ctx context.Context, eventType, payload string) error {
	if err := p.client.Publish(ctx, p.Channel(eventType), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}

var _ outbox.Publisher = (*Publisher)(nil)
