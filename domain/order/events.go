package order

import (
	"time"

	"resort/domain/shared"
)

type ItemAddedEvent struct {
	orderID    string
	userID     string
	item       OrderItem
	occurredOn time.Time
}

func NewItemAddedEvent(orderID, userID string, item OrderItem) *ItemAddedEvent {
	return &ItemAddedEvent{orderID: orderID, userID: userID, item: item, occurredOn: time.Now()}
}

func (e *ItemAddedEvent) EventName() string      { return "order.item_added" }
func (e *ItemAddedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *ItemAddedEvent) GetAggregateID() string { return e.orderID }
func (e *ItemAddedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id": e.orderID,
		"user_id":  e.userID,
		"item_id":  e.item.ID(),
		"type":     string(e.item.Type()),
		"ref_id":   e.item.RefID(),
		"quantity": e.item.Quantity(),
		"price":    e.item.Price().Amount(),
		"currency": e.item.Price().Currency(),
	}
}

type OrderBookedEvent struct {
	orderID     string
	userID      string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderBookedEvent(orderID, userID string, totalAmount shared.Money) *OrderBookedEvent {
	return &OrderBookedEvent{orderID: orderID, userID: userID, totalAmount: totalAmount, occurredOn: time.Now()}
}

func (e *OrderBookedEvent) EventName() string         { return "order.booked" }
func (e *OrderBookedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderBookedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderBookedEvent) TotalAmount() shared.Money { return e.totalAmount }
func (e *OrderBookedEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":       e.orderID,
		"user_id":        e.userID,
		"total_amount":   e.totalAmount.Amount(),
		"total_currency": e.totalAmount.Currency(),
	}
}

type OrderCancelledEvent struct {
	orderID    string
	userID     string
	wasBooked  bool
	occurredOn time.Time
}

func NewOrderCancelledEvent(orderID, userID string, wasBooked bool) *OrderCancelledEvent {
	return &OrderCancelledEvent{orderID: orderID, userID: userID, wasBooked: wasBooked, occurredOn: time.Now()}
}

func (e *OrderCancelledEvent) EventName() string      { return "order.cancelled" }
func (e *OrderCancelledEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderCancelledEvent) GetAggregateID() string { return e.orderID }
func (e *OrderCancelledEvent) WasBooked() bool        { return e.wasBooked }
func (e *OrderCancelledEvent) Payload() map[string]any {
	return map[string]any{
		"order_id":   e.orderID,
		"user_id":    e.userID,
		"was_booked": e.wasBooked,
	}
}
