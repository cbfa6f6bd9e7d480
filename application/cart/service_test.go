package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/shared"
	"resort/infrastructure/persistence/mocks"
	"resort/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRetry = retry.Config{
	Enabled:                       true,
	MaxAttempts:                   5,
	InitialDelay:                  time.Millisecond,
	MaxDelay:                      5 * time.Millisecond,
	BackoffFactor:                 2,
	RetryOnConcurrentModification: true,
}

func newTestService(t *testing.T) (*Service, *mocks.Store) {
	t.Helper()
	store := mocks.NewStore()
	store.PutRoom(catalog.RoomReconstructionDTO{
		ID:             "room-villa",
		Name:           "Lake View Villa",
		Category:       "Villas",
		SubCategory:    "Lake Front",
		Thumbnail:      "/images/villa.jpg",
		PricePerNight:  *shared.NewMoney(1500000, "INR"),
		AvailableRooms: 1,
	})
	store.PutGame(catalog.GameReconstructionDTO{
		ID:           "game-golf",
		Title:        "Golf",
		Category:     "Outdoor",
		PricePerHour: *shared.NewMoney(50000, "INR"),
	})

	svc := NewService(
		mocks.NewOrderRepository(store),
		mocks.NewCatalogRepository(store),
		mocks.NewUnitOfWorkFactory(store, testRetry),
		"INR",
		time.UTC,
	)
	return svc, store
}

func roomRequest() AddItemRequest {
	return AddItemRequest{
		Type:      "room",
		RefID:     "room-villa",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-03",
		Guests:    2,
	}
}

func gameRequest() AddItemRequest {
	return AddItemRequest{
		Type:      "game",
		RefID:     "game-golf",
		StartDate: "2024-06-02",
		Slot:      "18:00-19:00",
	}
}

func TestAddItem_CreatesCartAndSnapshotsListing(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	req := roomRequest()
	req.Quantity = 2
	cart, err := svc.AddItem(ctx, "user-1", req)
	require.NoError(t, err)

	assert.NotEmpty(t, cart.ID)
	assert.Equal(t, "Pending", cart.Status)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, "room", item.Type)
	assert.Equal(t, "Lake View Villa", item.Title)
	assert.Equal(t, "/images/villa.jpg", item.Thumbnail)
	assert.Equal(t, int64(1500000), item.UnitPrice.Amount)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "Villas", item.Meta.Category)
	assert.Equal(t, "Lake Front", item.Meta.SubCategory)
	assert.Equal(t, 2, item.Meta.Guests)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), item.StartDate)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), item.EndDate)
	assert.Equal(t, int64(3000000), cart.TotalAmount.Amount)

	events := store.Outbox()
	require.Len(t, events, 1)
	assert.Equal(t, "order.item_added", events[0].EventName())
}

func TestAddItem_TotalTracksEveryAdd(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "user-1", roomRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), cart.TotalAmount.Amount)

	game := gameRequest()
	game.Quantity = 3
	cart, err = svc.AddItem(ctx, "user-1", game)
	require.NoError(t, err)

	var sum int64
	for _, item := range cart.Items {
		sum += item.UnitPrice.Amount * int64(item.Quantity)
		assert.Equal(t, item.UnitPrice.Amount*int64(item.Quantity), item.Subtotal.Amount)
	}
	assert.Equal(t, sum, cart.TotalAmount.Amount)
	assert.Equal(t, int64(1500000+3*50000), cart.TotalAmount.Amount)
}

func TestAddItem_ReusesPendingCart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, "user-1", roomRequest())
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, "user-1", gameRequest())
	require.NoError(t, err)
	other, err := svc.AddItem(ctx, "user-2", gameRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 2)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAddItem_ConcurrentFirstAddsShareOneCart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const adds = 8
	var wg sync.WaitGroup
	errs := make(chan error, adds)
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, "user-1", gameRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cart, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, adds)
	assert.Equal(t, int64(adds*50000), cart.TotalAmount.Amount)
}

func TestAddItem_GameItem(t *testing.T) {
	svc, _ := newTestService(t)

	cart, err := svc.AddItem(context.Background(), "user-1", gameRequest())
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "game", item.Type)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "18:00-19:00", item.Meta.Slot)
	assert.Equal(t, "Outdoor", item.Meta.Category)
	assert.True(t, item.EndDate.IsZero())
}

func TestAddItem_Validation(t *testing.T) {
	svc, store := newTestService(t)

	tests := []struct {
		name  string
		req   func() AddItemRequest
		field string
	}{
		{"unknown type", func() AddItemRequest { r := roomRequest(); r.Type = "spa"; return r }, "type"},
		{"missing type", func() AddItemRequest { r := roomRequest(); r.Type = ""; return r }, "type"},
		{"missing ref", func() AddItemRequest { r := roomRequest(); r.RefID = ""; return r }, "ref_id"},
		{"room without end", func() AddItemRequest { r := roomRequest(); r.EndDate = ""; return r }, "start_date"},
		{"room without start", func() AddItemRequest { r := roomRequest(); r.StartDate = ""; return r }, "start_date"},
		{"room ends before start", func() AddItemRequest { r := roomRequest(); r.EndDate = "2024-05-30"; return r }, "end_date"},
		{"game without start", func() AddItemRequest { r := gameRequest(); r.StartDate = ""; return r }, "start_date"},
		{"negative quantity", func() AddItemRequest { r := gameRequest(); r.Quantity = -1; return r }, "quantity"},
		{"bad date", func() AddItemRequest { r := gameRequest(); r.StartDate = "06/01/2024"; return r }, "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), "user-1", tt.req())
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			assert.True(t, errors.Is(err, order.ErrInvalidItem))

			var fielded interface{ Field() string }
			require.True(t, errors.As(err, &fielded))
			assert.Equal(t, tt.field, fielded.Field())
		})
	}

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.ID)
	assert.Empty(t, store.Outbox())
}

func TestAddItem_UnknownReference(t *testing.T) {
	svc, _ := newTestService(t)

	req := roomRequest()
	req.RefID = "room-missing"
	_, err := svc.AddItem(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, catalog.ErrRoomNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	game := gameRequest()
	game.RefID = "room-villa"
	_, err = svc.AddItem(context.Background(), "user-1", game)
	assert.ErrorIs(t, err, catalog.ErrGameNotFound)
}

func TestAddItem_NoAvailabilityCheck(t *testing.T) {
	svc, store := newTestService(t)
	room := catalog.RoomReconstructionDTO{
		ID:             "room-full",
		Name:           "Full Suite",
		PricePerNight:  *shared.NewMoney(100000, "INR"),
		AvailableRooms: 0,
	}
	store.PutRoom(room)

	req := roomRequest()
	req.RefID = "room-full"
	_, err := svc.AddItem(context.Background(), "user-1", req)
	assert.NoError(t, err)
}

func TestAddItem_RequiresIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "", roomRequest())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestGetCart_EmptyWhenNoPendingOrder(t *testing.T) {
	svc, _ := newTestService(t)

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, cart.ID)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.TotalAmount.Amount)
	assert.Equal(t, "INR", cart.TotalAmount.Currency)
	assert.Equal(t, "Pending", cart.Status)
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", roomRequest())
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "user-1", gameRequest())
	require.NoError(t, err)

	cart, err = svc.RemoveItem(ctx, "user-1", cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "game", cart.Items[0].Type)
	assert.Equal(t, int64(50000), cart.TotalAmount.Amount)

	reloaded, err := svc.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, reloaded.Items)

	_, err = svc.RemoveItem(ctx, "user-1", "no-such-item")
	assert.ErrorIs(t, err, order.ErrItemNotFound)

	_, err = svc.RemoveItem(ctx, "user-2", cart.Items[0].ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
