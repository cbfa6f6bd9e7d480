package booking

import (
	"context"
	"errors"
	"sort"

	orderapp "resort/application/order"
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"
)

// QueryService is the read side of bookings. It never writes aggregates.
type QueryService struct {
	orders       order.Repository
	rooms        catalog.Repository
	listings     catalog.ListingFinder
	reservations reservation.Repository
	ledgerCache  catalog.LedgerCache
}

// NewQueryService creates the booking query service
func NewQueryService(deps Dependencies) *QueryService {
	deps = deps.withDefaults()
	return &QueryService{
		orders:       deps.Orders,
		rooms:        deps.Catalog,
		listings:     deps.Listings,
		reservations: deps.Reservations,
		ledgerCache:  deps.LedgerCache,
	}
}

// ListUserBookings returns every order of the user that has left the cart
// together with the user's legacy reservations, newest first. Entries with
// the same creation time keep orders ahead of reservations.
func (q *QueryService) ListUserBookings(ctx context.Context, userID string) ([]*orderapp.OrderResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}

	orders, err := q.orders.FindNonPendingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	legacy, err := q.reservations.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookings := orderapp.FromOrders(orders)
	listings := make(map[string]*catalog.Listing)
	for _, r := range legacy {
		listing, seen := listings[r.RoomTypeID()]
		if !seen {
			listing, err = q.legacyRoom(ctx, r.RoomTypeID())
			if err != nil {
				return nil, err
			}
			listings[r.RoomTypeID()] = listing
		}
		bookings = append(bookings, orderapp.FromReservation(r, listing))
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

// legacyRoom resolves the room of a legacy reservation. A deleted room is
// not an error; the booking is shown with a generic title.
func (q *QueryService) legacyRoom(ctx context.Context, roomID string) (*catalog.Listing, error) {
	listing, err := q.listings.RoomListing(ctx, roomID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return listing, nil
}

// RoomBookedDates returns a room's committed stays for the date picker.
// Snapshots are served from the ledger cache when present.
func (q *QueryService) RoomBookedDates(ctx context.Context, roomID string) (*catalog.LedgerSnapshot, error) {
	if snapshot, ok := q.ledgerCache.Get(ctx, roomID); ok {
		return snapshot, nil
	}

	room, err := q.rooms.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	snapshot := room.Snapshot()
	q.ledgerCache.Set(ctx, snapshot)
	return &snapshot, nil
}
