/*
Package mocks is an in-memory implementation of every persistence port.

It backs the "memory" database mode and the service tests. Units of work are
serialized on a single store mutex and roll back by restoring a snapshot
taken when they started, so a failed confirm leaves every room untouched.
Repositories called outside a unit of work take the mutex per call.
*/
package mocks

import (
	"context"
	"fmt"
	"sync"

	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"
	"resort/infrastructure/persistence/retry"
	"resort/infrastructure/persistence/seed"
)

// uowKey marks a context running inside a unit of work of a specific store
type uowKey struct{}

// Store holds DTO copies of every aggregate; nothing outside the store ever
// shares memory with what it keeps.
type Store struct {
	mu           sync.Mutex
	orders       map[string]order.ReconstructionDTO
	rooms        map[string]catalog.RoomReconstructionDTO
	games        map[string]catalog.GameReconstructionDTO
	reservations map[string]reservation.ReconstructionDTO
	outbox       []outboxRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		orders:       make(map[string]order.ReconstructionDTO),
		rooms:        make(map[string]catalog.RoomReconstructionDTO),
		games:        make(map[string]catalog.GameReconstructionDTO),
		reservations: make(map[string]reservation.ReconstructionDTO),
	}
}

// NewSeededStore creates a store holding the resort's starting catalog.
func NewSeededStore(currency string) *Store {
	s := NewStore()
	for _, room := range seed.Rooms(currency) {
		s.PutRoom(room)
	}
	for _, game := range seed.Games(currency) {
		s.PutGame(game)
	}
	return s
}

// PutRoom inserts or replaces a room type.
func (s *Store) PutRoom(dto catalog.RoomReconstructionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[dto.ID] = cloneRoom(dto)
}

// PutGame inserts or replaces a game.
func (s *Store) PutGame(dto catalog.GameReconstructionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[dto.ID] = dto
}

// Outbox returns the events committed so far, oldest first.
func (s *Store) Outbox() []shared.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]shared.DomainEvent, 0, len(s.outbox))
	for _, record := range s.outbox {
		events = append(events, record.event)
	}
	return events
}

// lock takes the store mutex unless ctx already runs inside one of this
// store's units of work. The returned func releases it.
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(uowKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	orders       map[string]order.ReconstructionDTO
	rooms        map[string]catalog.RoomReconstructionDTO
	reservations map[string]reservation.ReconstructionDTO
	outboxLen    int
}

// snapshot copies the maps; stored values are never mutated in place, so a
// shallow copy is enough.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		orders:       make(map[string]order.ReconstructionDTO, len(s.orders)),
		rooms:        make(map[string]catalog.RoomReconstructionDTO, len(s.rooms)),
		reservations: make(map[string]reservation.ReconstructionDTO, len(s.reservations)),
		outboxLen:    len(s.outbox),
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.rooms {
		snap.rooms[k] = v
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.orders = snap.orders
	s.rooms = snap.rooms
	s.reservations = snap.reservations
	s.outbox = s.outbox[:snap.outboxLen]
}

// UnitOfWork runs a business operation atomically against a Store.
type UnitOfWork struct {
	store       *Store
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(uowKey{}).(*Store); ok && owner == u.store {
		// nested: join the outer unit
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		u.aggregates = make([]shared.AggregateRoot, 0)

		u.store.mu.Lock()
		defer u.store.mu.Unlock()

		snap := u.store.snapshot()
		txCtx := context.WithValue(ctx, uowKey{}, u.store)
		if err := fn(txCtx); err != nil {
			u.store.restore(snap)
			return err
		}

		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				record, err := newOutboxRecord(event)
				if err != nil {
					u.store.restore(snap)
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
				u.store.outbox = append(u.store.outbox, record)
			}
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory hands out units of work bound to one store.
type UnitOfWorkFactory struct {
	store       *Store
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(store *Store, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return &UnitOfWork{store: f.store, retryConfig: f.retryConfig}
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
