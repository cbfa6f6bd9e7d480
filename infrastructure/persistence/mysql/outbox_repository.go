package mysql

import (
	"context"
	"fmt"

	"resort/domain/shared"
	"resort/infrastructure/outbox"
	"resort/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

// OutboxRepository MySQL/GORM implementation of outbox repository
// Implements transactional outbox pattern for reliable domain event publishing
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// SaveEvent Save domain event to outbox table
// Uses transaction from context when called within UoW.Execute()
func (r *OutboxRepository) SaveEvent(ctx context.Context, event shared.DomainEvent) error {
	if err := shared.ValidateEvent(event); err != nil {
		return fmt.Errorf("invalid domain event: %w", err)
	}

	outboxPO, err := po.FromDomainEvent(event)
	if err != nil {
		return fmt.Errorf("failed to convert domain event: %w", err)
	}

	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(outboxPO).Error; err != nil {
			return fmt.Errorf("failed to save event to outbox: %w", err)
		}
		return nil
	})
}

// GetPendingEvents returns the oldest pending events first
func (r *OutboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]outbox.Message, error) {
	var events []po.OutboxEventPO
	err := getDB(ctx, r.db).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}

	messages := make([]outbox.Message, 0, len(events))
	for i := range events {
		messages = append(messages, events[i].ToMessage())
	}
	return messages, nil
}

// MarkEventProcessing claims a pending event; a second worker gets an error
func (r *OutboxRepository) MarkEventProcessing(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ? AND status = ?", eventID, string(outbox.StatusPending)).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusProcessing),
			"updated_at": gorm.Expr("NOW()"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found or already being processed: %s", eventID)
	}
	return nil
}

func (r *OutboxRepository) MarkEventPublished(ctx context.Context, eventID string) error {
	result := getDB(ctx, r.db).Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":     string(outbox.StatusPublished),
			"updated_at": gorm.Expr("NOW()"),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// MarkEventFailed increments the retry count and parks the event once it
// reaches maxRetries.
func (r *OutboxRepository) MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error {
	db := getDB(ctx, r.db)

	var event po.OutboxEventPO
	if err := db.First(&event, "id = ?", eventID).Error; err != nil {
		return fmt.Errorf("failed to find event: %w", err)
	}

	newRetryCount := event.RetryCount + 1
	return db.Model(&po.OutboxEventPO{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"status":      string(outbox.NextStatus(newRetryCount, maxRetries)),
			"retry_count": newRetryCount,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

var (
	_ shared.OutboxRepository = (*OutboxRepository)(nil)
	_ outbox.Store            = (*OutboxRepository)(nil)
)
