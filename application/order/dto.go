/*
Package order holds the response models shared by the cart and booking
application services.

A booking is always rendered in the order shape, whether it is a cart, a
confirmed order or a legacy reservation adapted by FromReservation. Clients
tell the last kind apart by the legacy flag.
*/
package order

import "time"

// OrderResponse is an order, a cart, or an adapted legacy reservation.
type OrderResponse struct {
	ID          string         `json:"id,omitempty"`
	UserID      string         `json:"user_id"`
	Items       []ItemResponse `json:"items"`
	TotalAmount MoneyResponse  `json:"total_amount"`
	Status      string         `json:"status"`
	Legacy      bool           `json:"legacy,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitzero"`
	UpdatedAt   time.Time      `json:"updated_at,omitzero"`
}

// ItemResponse is one line of an order.
type ItemResponse struct {
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type"`
	RefID     string        `json:"ref_id"`
	Title     string        `json:"title"`
	Thumbnail string        `json:"thumbnail,omitempty"`
	UnitPrice MoneyResponse `json:"unit_price"`
	Quantity  int           `json:"quantity"`
	Subtotal  MoneyResponse `json:"subtotal"`
	StartDate time.Time     `json:"start_date,omitzero"`
	EndDate   time.Time     `json:"end_date,omitzero"` // rooms only
	Meta      MetaResponse  `json:"meta"`
}

// MetaResponse flattens RoomMeta and GameMeta.
type MetaResponse struct {
	Category    string `json:"category,omitempty"`
	SubCategory string `json:"sub_category,omitempty"`
	Guests      int    `json:"guests,omitempty"`
	Slot        string `json:"slot,omitempty"`
}

// MoneyResponse is an amount in minor units.
type MoneyResponse struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
