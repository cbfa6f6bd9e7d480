package cart

// AddItemRequest adds a room stay or a game session to the cart.
// Dates are calendar days ("2024-06-01") or RFC 3339 timestamps.
type AddItemRequest struct {
	Type      string `json:"type" binding:"required"`
	RefID     string `json:"ref_id" binding:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"` // rooms only
	Guests    int    `json:"guests"`   // rooms only, defaults to 1
	Slot      string `json:"slot"`     // games only
	Quantity  int    `json:"quantity"` // defaults to 1
}
