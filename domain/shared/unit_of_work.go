package shared

import "context"

// UnitOfWork owns a transaction boundary and the events raised inside it.
// Repositories called with the ctx handed to fn join the same transaction.
// fn may run more than once when the implementation retries, so it must
// reload whatever it mutates.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory hands out one UnitOfWork per business operation.
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository stores events in the same transaction as the aggregates.
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}
