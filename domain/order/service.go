package order

import (
	"context"
	"errors"
	"sort"
	"time"

	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/shared"
)

// RoomLoader loads room ledgers. Used to break the dependency on the full
// catalog repository.
type RoomLoader interface {
	FindRoomByID(ctx context.Context, id string) (*catalog.RoomType, error)
}

// DomainService applies an order's room items to the room ledgers.
// DDD principle: it loads aggregates through repository interfaces but never
// saves them; the application service persists whatever it returns.
type DomainService struct {
	rooms    RoomLoader
	location *time.Location
}

// NewDomainService Create order domain service. loc is the zone calendar
// days are normalized in; nil means time.Local.
func NewDomainService(rooms RoomLoader, loc *time.Location) *DomainService {
	if loc == nil {
		loc = time.Local
	}
	return &DomainService{rooms: rooms, location: loc}
}

// Stay is the ledger range an item occupies.
func (s *DomainService) Stay(item OrderItem) calendar.Range {
	return calendar.Normalize(item.StartDate(), item.EndDate(), s.location)
}

// ReserveRooms commits every room item of a Pending order to its ledger.
//
// Rooms are loaded once each in ascending id order, so two confirmations
// touching the same rooms lock them in the same sequence. Items are applied
// in order; the first conflict aborts and the caller must discard every
// returned room, which is what rolling back the transaction does.
func (s *DomainService) ReserveRooms(ctx context.Context, o *Order) ([]*catalog.RoomType, error) {
	if o.Status() != StatusPending {
		return nil, NewInvalidOrderStateError(string(o.Status()), string(StatusBooked))
	}

	items := o.RoomItems()
	rooms := make(map[string]*catalog.RoomType)
	for _, id := range distinctRoomIDs(items) {
		room, err := s.rooms.FindRoomByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms[id] = room
	}

	for _, item := range items {
		if err := rooms[item.RefID()].Reserve(s.Stay(item)); err != nil {
			return nil, err
		}
	}

	return sortedRooms(rooms), nil
}

// ReleaseReport describes what releasing a cancelled order touched.
type ReleaseReport struct {
	// Rooms whose ledger changed and must be saved
	Rooms []*catalog.RoomType

	// MissingRoomIDs were referenced by items but no longer exist
	MissingRoomIDs []string

	// Unmatched items had no equal range in their room ledger; their unit
	// was still given back
	Unmatched []OrderItem
}

// ReleaseRooms gives back the unit and ledger entry of every room item.
// Missing rooms are skipped and unmatched ranges reported; any other load
// error aborts.
func (s *DomainService) ReleaseRooms(ctx context.Context, o *Order) (ReleaseReport, error) {
	var report ReleaseReport

	items := o.RoomItems()
	rooms := make(map[string]*catalog.RoomType)
	for _, id := range distinctRoomIDs(items) {
		room, err := s.rooms.FindRoomByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				report.MissingRoomIDs = append(report.MissingRoomIDs, id)
				continue
			}
			return ReleaseReport{}, err
		}
		rooms[id] = room
	}

	changed := make(map[string]*catalog.RoomType)
	for _, item := range items {
		room, ok := rooms[item.RefID()]
		if !ok {
			continue
		}
		if !room.Release(s.Stay(item)) {
			report.Unmatched = append(report.Unmatched, item)
		}
		changed[room.ID()] = room
	}

	report.Rooms = sortedRooms(changed)
	return report, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func distinctRoomIDs(items []OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	var ids []string
	for _, item := range items {
		if _, ok := seen[item.RefID()]; ok {
			continue
		}
		seen[item.RefID()] = struct{}{}
		ids = append(ids, item.RefID())
	}
	sort.Strings(ids)
	return ids
}

func sortedRooms(rooms map[string]*catalog.RoomType) []*catalog.RoomType {
	result := make([]*catalog.RoomType, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}
