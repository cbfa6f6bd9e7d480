package mysql

import (
	"context"
	"fmt"

	"resort/domain/shared"
	"resort/infrastructure/persistence"
	"resort/infrastructure/persistence/retry"
	"resort/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork runs one booking step in a MySQL transaction and moves the
// events of every registered aggregate to outbox_events before commit.
type UnitOfWork struct {
	db          *gorm.DB
	outbox      *OutboxRepository
	retryConfig retry.Config
	registered  []shared.AggregateRoot
}

// NewUnitOfWork creates a unit of work retrying with retryConfig.
func NewUnitOfWork(db *gorm.DB, retryConfig retry.Config) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		outbox:      NewOutboxRepository(db),
		retryConfig: retryConfig,
	}
}

// Execute runs fn with the transaction carried by ctx. Each attempt starts a
// fresh transaction and forgets what the previous attempt registered, so fn
// must reload its aggregates. Lost version checks, deadlocks and lock wait
// timeouts retry the attempt; everything else rolls back and returns.
//
// A ctx that already carries a transaction joins it instead.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	attempt := 0
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		attempt++
		u.registered = u.registered[:0]

		err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txCtx := persistence.ContextWithTx(ctx, tx)
			if err := fn(txCtx); err != nil {
				return err
			}
			return u.flushEvents(txCtx)
		})
		if err != nil && attempt > 1 {
			logger.FromContext(ctx).Debug("Unit of work attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	})
}

func (u *UnitOfWork) flushEvents(ctx context.Context) error {
	for _, agg := range u.registered {
		for _, event := range agg.PullEvents() {
			if err := u.outbox.SaveEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to save %s to outbox: %w", event.EventName(), err)
			}
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

// UnitOfWorkFactory hands every application call its own UnitOfWork.
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.db, f.retryConfig)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
