/*
Package reservation holds standalone room bookings made through the direct
create path. They predate carts and are never part of an order; the booking
query merges them into a user's history.
*/
package reservation

import (
	"errors"
	"time"

	"resort/domain/calendar"
	"resort/domain/shared"
)

// Status of a reservation.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusBooked    Status = "Booked"
	StatusCheckedIn Status = "CheckedIn"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// ErrReservationNotFound no reservation with that id belongs to the user
var ErrReservationNotFound = errors.New("reservation not found")

// NewReservationNotFoundError matches ErrReservationNotFound and shared.ErrNotFound.
func NewReservationNotFoundError(id string) error {
	return &shared.DomainError{
		Err:     errors.Join(ErrReservationNotFound, shared.ErrNotFound),
		Entity:  "reservation",
		Message: "booking not found: " + id,
	}
}

// Reservation is a single room stay booked outside the cart.
type Reservation struct {
	id          string
	userID      string
	roomTypeID  string
	stay        calendar.Range
	guests      int
	totalAmount shared.Money
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

// New creates a Booked reservation for stay. guests below one count as one.
func New(id, userID, roomTypeID string, stay calendar.Range, guests int, total shared.Money) (*Reservation, error) {
	if id == "" {
		return nil, shared.NewValidationError("reservation", "id", "reservation id is required")
	}
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}
	if roomTypeID == "" {
		return nil, shared.NewValidationError("reservation", "room_type_id", "room type is required")
	}
	if stay.CheckOut.Before(stay.CheckIn) {
		return nil, shared.NewValidationError("reservation", "check_out", "check-out must not be before check-in")
	}
	if guests < 1 {
		guests = 1
	}

	now := time.Now()
	return &Reservation{
		id:          id,
		userID:      userID,
		roomTypeID:  roomTypeID,
		stay:        stay,
		guests:      guests,
		totalAmount: total,
		status:      StatusBooked,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructionDTO rebuilds a Reservation from storage.
type ReconstructionDTO struct {
	ID          string
	UserID      string
	RoomTypeID  string
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	TotalAmount shared.Money
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *Reservation {
	status := dto.Status
	if status == "" {
		status = StatusBooked
	}
	return &Reservation{
		id:          dto.ID,
		userID:      dto.UserID,
		roomTypeID:  dto.RoomTypeID,
		stay:        calendar.Range{CheckIn: dto.CheckIn, CheckOut: dto.CheckOut},
		guests:      dto.Guests,
		totalAmount: dto.TotalAmount,
		status:      status,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}

// Cancel sets the status to Cancelled and reports whether the stay still
// held a ledger entry that has to be released.
func (r *Reservation) Cancel() (holdsInventory bool) {
	switch r.status {
	case StatusCancelled:
		return false
	case StatusCompleted:
		holdsInventory = false
	default:
		holdsInventory = true
	}
	r.status = StatusCancelled
	r.updatedAt = time.Now()
	return holdsInventory
}

func (r *Reservation) ID() string                { return r.id }
func (r *Reservation) UserID() string            { return r.userID }
func (r *Reservation) RoomTypeID() string        { return r.roomTypeID }
func (r *Reservation) Stay() calendar.Range      { return r.stay }
func (r *Reservation) Guests() int               { return r.guests }
func (r *Reservation) TotalAmount() shared.Money { return r.totalAmount }
func (r *Reservation) Status() Status            { return r.status }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }
