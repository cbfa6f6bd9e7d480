package reservation

import "context"

// Repository is the legacy booking store. It is not transactional with the
// order store.
type Repository interface {
	NextIdentity() string
	Create(ctx context.Context, r *Reservation) error

	// FindByID returns ErrReservationNotFound unless the reservation belongs to userID.
	FindByID(ctx context.Context, id, userID string) (*Reservation, error)

	// FindByUserID lists a user's reservations, newest first.
	FindByUserID(ctx context.Context, userID string) ([]*Reservation, error)

	Save(ctx context.Context, r *Reservation) error
}
