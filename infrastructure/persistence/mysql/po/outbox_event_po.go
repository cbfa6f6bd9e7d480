package po

import (
	"encoding/json"
	"time"

	"resort/domain/shared"
	"resort/infrastructure/outbox"

	"github.com/google/uuid"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"` // e.g. "order.booked", "room.reserved"
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null;index:idx_outbox_status_created"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_outbox_status_created"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := outbox.Serialize(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(outbox.StatusPending),
		RetryCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ToMessage is what the outbox worker consumes
func (po *OutboxEventPO) ToMessage() outbox.Message {
	return outbox.Message{
		ID:          po.ID,
		AggregateID: po.AggregateID,
		EventType:   po.EventType,
		Payload:     po.Payload,
		RetryCount:  po.RetryCount,
		CreatedAt:   po.CreatedAt,
	}
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(po.Payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
