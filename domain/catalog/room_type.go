/*
Package catalog models what guests can book: room types with their
reservation ledger, and games.

The catalog itself is maintained elsewhere; the booking core only reads
listings and mutates a room's ledger (bookedDates and availableRooms) while
confirming or cancelling.
*/
package catalog

import (
	"time"

	"resort/domain/calendar"
	"resort/domain/shared"
)

// RoomType aggregate root. Its ledger is the list of committed stays.
//
// Invariant: ranges in bookedDates never overlap each other, because the
// only way in is Reserve, which rejects overlapping stays.
type RoomType struct {
	id             string
	name           string
	category       string
	subCategory    string
	thumbnail      string
	pricePerNight  shared.Money
	availableRooms int
	amenities      []string
	bookedDates    []calendar.Range
	version        int
	createdAt      time.Time
	updatedAt      time.Time

	events []shared.DomainEvent
}

// RoomReconstructionDTO rebuilds a RoomType from storage.
// Only repository implementations use it.
type RoomReconstructionDTO struct {
	ID             string
	Name           string
	Category       string
	SubCategory    string
	Thumbnail      string
	PricePerNight  shared.Money
	AvailableRooms int
	Amenities      []string
	BookedDates    []calendar.Range
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RebuildRoomFromDTO reconstructs the aggregate without raising events.
func RebuildRoomFromDTO(dto RoomReconstructionDTO) *RoomType {
	return &RoomType{
		id:             dto.ID,
		name:           dto.Name,
		category:       dto.Category,
		subCategory:    dto.SubCategory,
		thumbnail:      dto.Thumbnail,
		pricePerNight:  dto.PricePerNight,
		availableRooms: dto.AvailableRooms,
		amenities:      append([]string(nil), dto.Amenities...),
		bookedDates:    append([]calendar.Range(nil), dto.BookedDates...),
		version:        dto.Version,
		createdAt:      dto.CreatedAt,
		updatedAt:      dto.UpdatedAt,
	}
}

// ConflictingRange returns the first ledger entry overlapping stay.
func (r *RoomType) ConflictingRange(stay calendar.Range) (calendar.Range, bool) {
	for _, booked := range r.bookedDates {
		if booked.Overlaps(stay) {
			return booked, true
		}
	}
	return calendar.Range{}, false
}

// Reserve commits stay to the ledger.
// Any overlap is a conflict regardless of the remaining unit count.
// availableRooms is decremented but never below zero.
func (r *RoomType) Reserve(stay calendar.Range) error {
	if _, taken := r.ConflictingRange(stay); taken {
		return NewRoomAlreadyBookedError(r.name)
	}

	r.bookedDates = append(r.bookedDates, stay)
	if r.availableRooms > 0 {
		r.availableRooms--
	}
	r.updatedAt = time.Now()
	r.events = append(r.events, NewRoomReservedEvent(r.id, stay, r.availableRooms))
	return nil
}

// Release gives the unit back, uncapped, and removes the first ledger entry
// equal to stay. It reports whether an entry matched; the unit comes back
// either way.
func (r *RoomType) Release(stay calendar.Range) bool {
	matched := false
	for i, booked := range r.bookedDates {
		if booked.Equal(stay) {
			r.bookedDates = append(r.bookedDates[:i:i], r.bookedDates[i+1:]...)
			matched = true
			break
		}
	}
	r.availableRooms++
	r.updatedAt = time.Now()
	r.events = append(r.events, NewRoomReleasedEvent(r.id, stay, r.availableRooms))
	return matched
}

// Snapshot is the read model served to the date picker.
func (r *RoomType) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		RoomID:         r.id,
		Name:           r.name,
		AvailableRooms: r.availableRooms,
		BookedDates:    append([]calendar.Range{}, r.bookedDates...),
	}
}

// Listing projects the fields a cart item snapshots.
func (r *RoomType) Listing() *Listing {
	return &Listing{
		ID:          r.id,
		Kind:        KindRoom,
		Title:       r.name,
		Category:    r.category,
		SubCategory: r.subCategory,
		Thumbnail:   r.thumbnail,
		Price:       r.pricePerNight.Amount(),
		Currency:    r.pricePerNight.Currency(),
	}
}

// IncrementVersionForSave is called by repositories after a successful write.
func (r *RoomType) IncrementVersionForSave() {
	r.version++
}

func (r *RoomType) ID() string                  { return r.id }
func (r *RoomType) Name() string                { return r.name }
func (r *RoomType) Category() string            { return r.category }
func (r *RoomType) SubCategory() string         { return r.subCategory }
func (r *RoomType) Thumbnail() string           { return r.thumbnail }
func (r *RoomType) PricePerNight() shared.Money { return r.pricePerNight }
func (r *RoomType) AvailableRooms() int         { return r.availableRooms }
func (r *RoomType) Version() int                { return r.version }
func (r *RoomType) CreatedAt() time.Time        { return r.createdAt }
func (r *RoomType) UpdatedAt() time.Time        { return r.updatedAt }

func (r *RoomType) Amenities() []string {
	return append([]string(nil), r.amenities...)
}

func (r *RoomType) BookedDates() []calendar.Range {
	return append([]calendar.Range(nil), r.bookedDates...)
}

func (r *RoomType) PullEvents() []shared.DomainEvent {
	events := r.events
	r.events = nil
	return events
}

var _ shared.AggregateRoot = (*RoomType)(nil)
