package mocks

import (
	"context"
	"fmt"
	"time"

	"resort/domain/shared"
	"resort/infrastructure/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message outbox.Message
	status  outbox.Status
	event   shared.DomainEvent
}

func newOutboxRecord(event shared.DomainEvent) (outboxRecord, error) {
	if err := shared.ValidateEvent(event); err != nil {
		return outboxRecord{}, err
	}
	payload, err := outbox.Serialize(event)
	if err != nil {
		return outboxRecord{}, err
	}
	return outboxRecord{
		message: outbox.Message{
			ID:          uuid.NewString(),
			AggregateID: event.GetAggregateID(),
			EventType:   event.EventName(),
			Payload:     payload,
			CreatedAt:   time.Now(),
		},
		status: outbox.StatusPending,
		event:  event,
	}, nil
}

// OutboxRepository exposes the store's committed events to the outbox worker.
type OutboxRepository struct {
	store *Store
}

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	record, err := newOutboxRecord(event)
	if err != nil {
		return fmt.Errorf("failed to save event to outbox: %w", err)
	}

	unlock := r.store.lock(ctx)
	defer unlock()
	r.store.outbox = append(r.store.outbox, record)
	return nil
}

func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Message, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var pending []outbox.Message
	for _, record := range r.store.outbox {
		if record.status != outbox.StatusPending {
			continue
		}
		pending = append(pending, record.message)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, func(rec *outboxRecord) error {
		if rec.status != outbox.StatusPending {
			return fmt.Errorf("event already claimed: %s", eventID)
		}
		rec.status = outbox.StatusProcessing
		return nil
	})
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	return r.transition(ctx, eventID, func(rec *outboxRecord) error {
		rec.status = outbox.StatusPublished
		return nil
	})
}

func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	return r.transition(ctx, eventID, func(rec *outboxRecord) error {
		rec.message.RetryCount++
		rec.status = outbox.NextStatus(rec.message.RetryCount, maxRetries)
		return nil
	})
}

// Statuses returns the status of every stored event keyed by message id.
func (r *OutboxRepository) Statuses() map[string]outbox.Status {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	statuses := make(map[string]outbox.Status, len(r.store.outbox))
	for _, record := range r.store.outbox {
		statuses[record.message.ID] = record.status
	}
	return statuses
}

func (r *OutboxRepository) transition(ctx context.Context, eventID string, apply func(*outboxRecord) error) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	for i := range r.store.outbox {
		if r.store.outbox[i].message.ID == eventID {
			return apply(&r.store.outbox[i])
		}
	}
	return fmt.Errorf("outbox event not found: %s", eventID)
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
