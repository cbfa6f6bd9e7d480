package catalog

import (
	"context"

	"resort/domain/calendar"
	"resort/domain/shared"
)

// ListingKind tells rooms and games apart in a Listing.
type ListingKind string

const (
	KindRoom ListingKind = "room"
	KindGame ListingKind = "game"
)

// Listing is the denormalized view of a catalog entry that cart items copy.
// It is a plain struct so it can be cached as JSON.
type Listing struct {
	ID          string      `json:"id"`
	Kind        ListingKind `json:"kind"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	SubCategory string      `json:"sub_category,omitempty"`
	Thumbnail   string      `json:"thumbnail"`
	Price       int64       `json:"price"`
	Currency    string      `json:"currency"`
}

// UnitPrice returns the listing price as Money.
func (l *Listing) UnitPrice() shared.Money {
	return *shared.NewMoney(l.Price, l.Currency)
}

// LedgerSnapshot is a room's committed stays at a point in time.
type LedgerSnapshot struct {
	RoomID         string           `json:"room_id"`
	Name           string           `json:"name"`
	AvailableRooms int              `json:"available_rooms"`
	BookedDates    []calendar.Range `json:"booked_dates"`
}

// ListingFinder resolves listings for cart snapshots and read projections.
// Implementations may serve slightly stale data.
type ListingFinder interface {
	RoomListing(ctx context.Context, id string) (*Listing, error)
	GameListing(ctx context.Context, id string) (*Listing, error)
}

// Repository is the booking core's port onto the catalog store.
type Repository interface {
	ListingFinder

	// FindRoomByID loads a room type. Inside a unit of work the row is
	// locked until the transaction ends.
	FindRoomByID(ctx context.Context, id string) (*RoomType, error)

	FindGameByID(ctx context.Context, id string) (*Game, error)

	// SaveRoomType persists the ledger and unit count under an optimistic
	// version check.
	SaveRoomType(ctx context.Context, room *RoomType) error
}

// LedgerCache caches ledger snapshots for the date picker.
type LedgerCache interface {
	Get(ctx context.Context, roomID string) (*LedgerSnapshot, bool)
	Set(ctx context.Context, snapshot LedgerSnapshot)
	Invalidate(ctx context.Context, roomIDs ...string)
}

// NopLedgerCache never caches anything.
type NopLedgerCache struct{}

func (NopLedgerCache) Get(context.Context, string) (*LedgerSnapshot, bool) { return nil, false }
func (NopLedgerCache) Set(context.Context, LedgerSnapshot)                 {}
func (NopLedgerCache) Invalidate(context.Context, ...string)               {}
