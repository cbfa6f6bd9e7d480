package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"resort/domain/calendar"
	"resort/domain/catalog"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	calls   int
	listing *catalog.Listing
	err     error
}

func (f *countingFinder) RoomListing(context.Context, string) (*catalog.Listing, error) {
	f.calls++
	return f.listing, f.err
}

func (f *countingFinder) GameListing(context.Context, string) (*catalog.Listing, error) {
	f.calls++
	return f.listing, f.err
}

func villa() *catalog.Listing {
	return &catalog.Listing{
		ID:       "room-lake-view-villa",
		Kind:     catalog.KindRoom,
		Title:    "Lake View Villa",
		Category: "Villas",
		Price:    1500000,
		Currency: "INR",
	}
}

func TestCachedListingFinder_MissFillsCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &countingFinder{listing: villa()}
	finder := NewCachedListingFinder(next, db, 10*time.Minute)

	encoded, err := json.Marshal(villa())
	require.NoError(t, err)

	mock.ExpectGet("listing:room:room-lake-view-villa").RedisNil()
	mock.ExpectSet("listing:room:room-lake-view-villa", string(encoded), 10*time.Minute).SetVal("OK")

	listing, err := finder.RoomListing(context.Background(), "room-lake-view-villa")
	require.NoError(t, err)
	assert.Equal(t, villa(), listing)
	assert.Equal(t, 1, next.calls)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCachedListingFinder_HitSkipsDatabase(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &countingFinder{}
	finder := NewCachedListingFinder(next, db, time.Minute)

	encoded, err := json.Marshal(villa())
	require.NoError(t, err)
	mock.ExpectGet("listing:game:game-golf").SetVal(string(encoded))

	listing, err := finder.GameListing(context.Background(), "game-golf")
	require.NoError(t, err)
	assert.Equal(t, "Lake View Villa", listing.Title)
	assert.Zero(t, next.calls)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCachedListingFinder_RedisDownFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &countingFinder{listing: villa()}
	finder := NewCachedListingFinder(next, db, time.Minute)

	mock.ExpectGet("listing:room:room-lake-view-villa").SetErr(errors.New("connection refused"))
	mock.ExpectSet("listing:room:room-lake-view-villa", mustJSON(t, villa()), time.Minute).SetErr(errors.New("connection refused"))

	listing, err := finder.RoomListing(context.Background(), "room-lake-view-villa")
	require.NoError(t, err)
	assert.Equal(t, "Lake View Villa", listing.Title)
	assert.Equal(t, 1, next.calls)
}

func TestCachedListingFinder_NotFoundIsNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &countingFinder{err: catalog.NewRoomNotFoundError("room-x")}
	finder := NewCachedListingFinder(next, db, time.Minute)

	mock.ExpectGet("listing:room:room-x").RedisNil()

	_, err := finder.RoomListing(context.Background(), "room-x")
	assert.ErrorIs(t, err, catalog.ErrRoomNotFound)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestLedgerCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLedgerCache(db, time.Minute)
	ctx := context.Background()

	snapshot := catalog.LedgerSnapshot{
		RoomID:         "room-1",
		Name:           "Lake View Villa",
		AvailableRooms: 0,
		BookedDates: []calendar.Range{{
			CheckIn:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2024, 6, 3, 23, 59, 59, 999000000, time.UTC),
		}},
	}

	mock.ExpectSetNX("ledger:room:room-1", mustJSON(t, snapshot), time.Minute).SetVal(true)
	cache.Set(ctx, snapshot)

	mock.ExpectGet("ledger:room:room-1").SetVal(mustJSON(t, snapshot))
	got, ok := cache.Get(ctx, "room-1")
	require.True(t, ok)
	assert.Equal(t, "room-1", got.RoomID)
	require.Len(t, got.BookedDates, 1)
	assert.True(t, got.BookedDates[0].Equal(snapshot.BookedDates[0]))

	mock.ExpectGet("ledger:room:room-2").RedisNil()
	_, ok = cache.Get(ctx, "room-2")
	assert.False(t, ok)

	mock.ExpectSet("ledger:room:room-1", ledgerTombstone, ledgerTombstoneTTL).SetVal("OK")
	mock.ExpectSet("ledger:room:room-2", ledgerTombstone, ledgerTombstoneTTL).SetVal("OK")
	mock.ExpectDel("listing:room:room-1", "listing:room:room-2").SetVal(2)
	cache.Invalidate(ctx, "room-1", "room-2")

	// nothing to drop, no round trip
	cache.Invalidate(ctx)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestLedgerCache_SnapshotReadBeforeCommitIsNotCachedAfterIt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLedgerCache(db, time.Minute)
	ctx := context.Background()
	before := catalog.LedgerSnapshot{RoomID: "room-1", Name: "Lake View Villa", AvailableRooms: 1}

	// a confirm commits and invalidates while a reader holds the old ledger
	mock.ExpectSet("ledger:room:room-1", ledgerTombstone, ledgerTombstoneTTL).SetVal("OK")
	mock.ExpectDel("listing:room:room-1").SetVal(0)
	cache.Invalidate(ctx, "room-1")

	// the reader's late write is refused
	mock.ExpectSetNX("ledger:room:room-1", mustJSON(t, before), time.Minute).SetVal(false)
	cache.Set(ctx, before)

	// and the tombstone reads as a miss
	mock.ExpectGet("ledger:room:room-1").SetVal(ledgerTombstone)
	_, ok := cache.Get(ctx, "room-1")
	assert.False(t, ok)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestPublisher(t *testing.T) {
	db, mock := redismock.NewClientMock()
	publisher := NewPublisher(db, "resort")
	payload := `{"event_name":"order.booked","aggregate_id":"order-1"}`

	mock.ExpectPublish("resort.order.booked", payload).SetVal(1)
	require.NoError(t, publisher.Publish(context.Background(), "order.booked", payload))

	mock.ExpectPublish("resort.room.reserved", payload).SetErr(errors.New("broken pipe"))
	err := publisher.Publish(context.Background(), "room.reserved", payload)
	assert.Error(t, err)

	assert.Equal(t, "order.booked", NewPublisher(db, "").Channel("order.booked"))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
