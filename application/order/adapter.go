package order

import (
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
)

// legacyRoomTitle is shown when the reserved room no longer exists.
const legacyRoomTitle = "Room"

// FromReservation adapts a legacy reservation into a one-item order.
// listing is the reserved room, or nil if it was deleted from the catalog.
// The single item carries the reservation total as its price.
func FromReservation(r *reservation.Reservation, listing *catalog.Listing) *OrderResponse {
	total := toMoneyResponse(r.TotalAmount())

	item := ItemResponse{
		Type:      string(order.ItemTypeRoom),
		RefID:     r.RoomTypeID(),
		Title:     legacyRoomTitle,
		UnitPrice: total,
		Quantity:  1,
		Subtotal:  total,
		StartDate: r.Stay().CheckIn,
		EndDate:   r.Stay().CheckOut,
		Meta:      MetaResponse{Guests: r.Guests()},
	}
	if listing != nil {
		item.Title = listing.Title
		item.Thumbnail = listing.Thumbnail
		item.Meta.Category = listing.Category
		item.Meta.SubCategory = listing.SubCategory
	}

	return &OrderResponse{
		ID:          r.ID(),
		UserID:      r.UserID(),
		Items:       []ItemResponse{item},
		TotalAmount: total,
		Status:      string(r.Status()),
		Legacy:      true,
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}
