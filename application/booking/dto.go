package booking

// CreateDirectRequest books a room outside the cart.
// The price is taken from the room; clients cannot set it.
type CreateDirectRequest struct {
	RoomTypeID   string `json:"room_type_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"`
	CheckOutDate string `json:"check_out_date" binding:"required"`
	Guests       int    `json:"guests"`
}
