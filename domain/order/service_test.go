package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"resort/domain/catalog"
	"resort/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRooms struct {
	rooms  map[string]*catalog.RoomType
	loaded []string
}

func (s *stubRooms) FindRoomByID(_ context.Context, id string) (*catalog.RoomType, error) {
	s.loaded = append(s.loaded, id)
	room, ok := s.rooms[id]
	if !ok {
		return nil, catalog.NewRoomNotFoundError(id)
	}
	return room, nil
}

func ledgerRoom(id string, available int) *catalog.RoomType {
	return catalog.RebuildRoomFromDTO(catalog.RoomReconstructionDTO{
		ID:             id,
		Name:           "Room " + id,
		PricePerNight:  *shared.NewMoney(1000, "INR"),
		AvailableRooms: available,
	})
}

func cartWithRooms(t *testing.T, stays ...[3]string) *Order {
	t.Helper()
	o := newCart(t)
	for _, s := range stays {
		spec := roomSpec(1000, 1)
		spec.RefID = s[0]
		spec.StartDate = day(s[1])
		spec.EndDate = day(s[2])
		_, err := o.AddItem(spec)
		require.NoError(t, err)
	}
	_, err := o.AddItem(gameSpec(300))
	require.NoError(t, err)
	return o
}

func TestReserveRooms_LocksInIDOrderOnce(t *testing.T) {
	loader := &stubRooms{rooms: map[string]*catalog.RoomType{
		"b": ledgerRoom("b", 2),
		"a": ledgerRoom("a", 2),
	}}
	svc := NewDomainService(loader, time.UTC)
	o := cartWithRooms(t,
		[3]string{"b", "2024-06-01", "2024-06-02"},
		[3]string{"a", "2024-06-01", "2024-06-02"},
		[3]string{"b", "2024-06-10", "2024-06-12"},
	)

	rooms, err := svc.ReserveRooms(context.Background(), o)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, loader.loaded)
	require.Len(t, rooms, 2)
	assert.Equal(t, "a", rooms[0].ID())
	assert.Len(t, rooms[1].BookedDates(), 2)
	assert.Equal(t, 0, rooms[1].AvailableRooms())
}

func TestReserveRooms_OverlapInsideOneOrderConflicts(t *testing.T) {
	loader := &stubRooms{rooms: map[string]*catalog.RoomType{"a": ledgerRoom("a", 5)}}
	svc := NewDomainService(loader, time.UTC)
	o := cartWithRooms(t,
		[3]string{"a", "2024-06-01", "2024-06-03"},
		[3]string{"a", "2024-06-03", "2024-06-04"},
	)

	_, err := svc.ReserveRooms(context.Background(), o)

	assert.True(t, errors.Is(err, catalog.ErrRoomAlreadyBooked))
}

func TestReserveRooms_MissingRoom(t *testing.T) {
	svc := NewDomainService(&stubRooms{rooms: map[string]*catalog.RoomType{}}, time.UTC)
	o := cartWithRooms(t, [3]string{"gone", "2024-06-01", "2024-06-03"})

	_, err := svc.ReserveRooms(context.Background(), o)

	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestReserveRooms_RequiresPending(t *testing.T) {
	svc := NewDomainService(&stubRooms{}, time.UTC)
	o := newCart(t)
	o.Cancel()

	_, err := svc.ReserveRooms(context.Background(), o)

	assert.True(t, errors.Is(err, ErrInvalidOrderState))
}

func TestReleaseRooms_ReportsSkips(t *testing.T) {
	a := ledgerRoom("a", 0)
	loader := &stubRooms{rooms: map[string]*catalog.RoomType{"a": a}}
	svc := NewDomainService(loader, time.UTC)
	o := cartWithRooms(t,
		[3]string{"a", "2024-06-01", "2024-06-03"},
		[3]string{"a", "2024-07-01", "2024-07-03"},
		[3]string{"gone", "2024-06-01", "2024-06-03"},
	)
	require.NoError(t, a.Reserve(svc.Stay(o.RoomItems()[0])))

	report, err := svc.ReleaseRooms(context.Background(), o)

	require.NoError(t, err)
	require.Len(t, report.Rooms, 1)
	assert.Empty(t, a.BookedDates())
	assert.Equal(t, 2, a.AvailableRooms(), "every room item gives its unit back")
	assert.Equal(t, []string{"gone"}, report.MissingRoomIDs)
	require.Len(t, report.Unmatched, 1)
	assert.True(t, report.Unmatched[0].StartDate().Equal(day("2024-07-01")))
}
