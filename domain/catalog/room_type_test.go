package catalog

import (
	"errors"
	"testing"
	"time"

	"resort/domain/calendar"
	"resort/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay(from, to string) calendar.Range {
	start, _ := calendar.ParseDate(from, time.UTC)
	end, _ := calendar.ParseDate(to, time.UTC)
	return calendar.Normalize(start, end, time.UTC)
}

func newRoom(available int, booked ...calendar.Range) *RoomType {
	return RebuildRoomFromDTO(RoomReconstructionDTO{
		ID:             "room-1",
		Name:           "Beachfront Junior Suite",
		Category:       "Suites",
		SubCategory:    "Beachfront Suites",
		PricePerNight:  *shared.NewMoney(55000, "INR"),
		AvailableRooms: available,
		BookedDates:    booked,
		Version:        3,
	})
}

func TestReserve_AppendsAndDecrements(t *testing.T) {
	room := newRoom(1)

	require.NoError(t, room.Reserve(stay("2024-06-01", "2024-06-03")))

	assert.Equal(t, 0, room.AvailableRooms())
	require.Len(t, room.BookedDates(), 1)
	assert.True(t, room.BookedDates()[0].Equal(stay("2024-06-01", "2024-06-03")))

	events := room.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "room.reserved", events[0].EventName())
	assert.Empty(t, room.PullEvents())
}

func TestReserve_CounterFloorsAtZero(t *testing.T) {
	room := newRoom(0)

	require.NoError(t, room.Reserve(stay("2024-06-01", "2024-06-03")))

	assert.Equal(t, 0, room.AvailableRooms())
}

func TestReserve_OverlapIsConflictEvenWithSpareUnits(t *testing.T) {
	room := newRoom(5, stay("2024-06-01", "2024-06-03"))

	err := room.Reserve(stay("2024-06-03", "2024-06-05"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoomAlreadyBooked))
	assert.True(t, errors.Is(err, shared.ErrConflict))
	assert.Equal(t, `Room "Beachfront Junior Suite" already booked for selected dates`, err.Error())
	assert.Equal(t, 5, room.AvailableRooms())
	assert.Len(t, room.BookedDates(), 1)
	assert.Empty(t, room.PullEvents())
}

func TestRelease_RemovesExactMatchAndIncrements(t *testing.T) {
	first := stay("2024-06-01", "2024-06-03")
	second := stay("2024-07-01", "2024-07-03")
	room := newRoom(0, first, second)

	assert.True(t, room.Release(second))

	assert.Equal(t, 1, room.AvailableRooms())
	require.Len(t, room.BookedDates(), 1)
	assert.True(t, room.BookedDates()[0].Equal(first))
}

func TestRelease_NoMatchStillGivesUnitBack(t *testing.T) {
	room := newRoom(0, stay("2024-06-01", "2024-06-03"))

	assert.False(t, room.Release(stay("2024-06-01", "2024-06-04")))

	assert.Equal(t, 1, room.AvailableRooms())
	assert.Len(t, room.BookedDates(), 1)
	assert.Len(t, room.PullEvents(), 1)
}

func TestRelease_IsUncapped(t *testing.T) {
	r := stay("2024-06-01", "2024-06-03")
	room := newRoom(4, r)

	assert.True(t, room.Release(r))
	assert.Equal(t, 5, room.AvailableRooms())
}

func TestReserveThenRelease_RestoresLedger(t *testing.T) {
	room := newRoom(1)
	r := stay("2024-06-01", "2024-06-03")

	require.NoError(t, room.Reserve(r))
	require.True(t, room.Release(r))

	assert.Equal(t, 1, room.AvailableRooms())
	assert.Empty(t, room.BookedDates())
}

func TestBookedDates_ReturnsCopy(t *testing.T) {
	room := newRoom(1, stay("2024-06-01", "2024-06-03"))

	dates := room.BookedDates()
	dates[0] = calendar.Range{}

	assert.False(t, room.BookedDates()[0].CheckIn.IsZero())
}

func TestListing(t *testing.T) {
	listing := newRoom(1).Listing()

	assert.Equal(t, KindRoom, listing.Kind)
	assert.Equal(t, "Beachfront Junior Suite", listing.Title)
	assert.True(t, listing.UnitPrice().Equals(*shared.NewMoney(55000, "INR")))
}
