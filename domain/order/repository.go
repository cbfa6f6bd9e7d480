package order

import "context"

// Repository Order repository interface
type Repository interface {
	// NextIdentity generates an id for a new cart
	NextIdentity() string

	// Save creates or updates the order under an optimistic version check.
	// Creating a second Pending order for a user fails with
	// ErrConcurrentModification so the unit of work retries and finds the
	// cart the other request created.
	Save(ctx context.Context, order *Order) error

	// FindByID loads an order owned by userID. Orders of other users are
	// reported as not found. Inside a unit of work the row is locked.
	FindByID(ctx context.Context, id, userID string) (*Order, error)

	// FindPendingByUserID loads the user's cart, ErrOrderNotFound if none.
	FindPendingByUserID(ctx context.Context, userID string) (*Order, error)

	// FindNonPendingByUserID lists booked, completed and cancelled orders,
	// newest first.
	FindNonPendingByUserID(ctx context.Context, userID string) ([]*Order, error)
}
