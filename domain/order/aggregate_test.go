package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"resort/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(value string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", value, time.UTC)
	return t
}

func roomSpec(price int64, qty int) ItemSpec {
	return ItemSpec{
		Type:      ItemTypeRoom,
		RefID:     "room-1",
		Title:     "Lake View Villa",
		Price:     *shared.NewMoney(price, "INR"),
		Quantity:  qty,
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-03"),
		Meta:      RoomMeta{Category: "Villas", Guests: 2},
	}
}

func gameSpec(price int64) ItemSpec {
	return ItemSpec{
		Type:      ItemTypeGame,
		RefID:     "game-1",
		Title:     "Golf",
		Price:     *shared.NewMoney(price, "INR"),
		Quantity:  1,
		StartDate: day("2024-06-02"),
		Meta:      GameMeta{Category: "Outdoor", Slot: "18:00-19:00"},
	}
}

func newCart(t *testing.T) *Order {
	t.Helper()
	o, err := NewCart("order-1", "user-1", "INR")
	require.NoError(t, err)
	return o
}

func TestNewCart(t *testing.T) {
	o := newCart(t)

	assert.Equal(t, StatusPending, o.Status())
	assert.True(t, o.TotalAmount().IsZero())
	assert.Empty(t, o.Items())
	assert.True(t, o.IsNew())

	_, err := NewCart("order-2", "", "INR")
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAddItem_RecomputesTotal(t *testing.T) {
	o := newCart(t)

	_, err := o.AddItem(roomSpec(1000, 2))
	require.NoError(t, err)
	_, err = o.AddItem(gameSpec(500))
	require.NoError(t, err)

	assert.Equal(t, int64(2500), o.TotalAmount().Amount())
	require.Len(t, o.Items(), 2)
	assert.True(t, o.Items()[1].EndDate().IsZero())
	assert.Len(t, o.RoomItems(), 1)

	events := o.PullEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "order.item_added", events[0].EventName())
}

func TestAddItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ItemSpec)
		field  string
	}{
		{"unknown type", func(s *ItemSpec) { s.Type = "spa" }, "type"},
		{"missing ref", func(s *ItemSpec) { s.RefID = "" }, "ref_id"},
		{"zero quantity", func(s *ItemSpec) { s.Quantity = 0 }, "quantity"},
		{"room without end", func(s *ItemSpec) { s.EndDate = time.Time{} }, "end_date"},
		{"room ends before start", func(s *ItemSpec) { s.EndDate = day("2024-05-30") }, "end_date"},
		{"meta mismatch", func(s *ItemSpec) { s.Meta = GameMeta{} }, "meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newCart(t)
			spec := roomSpec(1000, 1)
			tt.mutate(&spec)

			_, err := o.AddItem(spec)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidItem))
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
			var fielded interface{ Field() string }
			require.True(t, errors.As(err, &fielded))
			assert.Equal(t, tt.field, fielded.Field())
			assert.Empty(t, o.Items())
		})
	}
}

func TestAddItem_GameWithEndDateRejected(t *testing.T) {
	o := newCart(t)
	spec := gameSpec(500)
	spec.EndDate = day("2024-06-03")

	_, err := o.AddItem(spec)

	assert.True(t, errors.Is(err, ErrInvalidItem))
}

func TestAddItem_RejectedOutsidePending(t *testing.T) {
	o := newCart(t)
	_, err := o.AddItem(roomSpec(1000, 1))
	require.NoError(t, err)
	require.NoError(t, o.MarkBooked())

	_, err = o.AddItem(gameSpec(500))

	assert.True(t, errors.Is(err, ErrCannotModifyNonPendingOrder))
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Equal(t, int64(1000), o.TotalAmount().Amount())
}

func TestRemoveItem(t *testing.T) {
	o := RebuildFromDTO(ReconstructionDTO{
		ID:          "order-1",
		UserID:      "user-1",
		Items:       []OrderItem{RebuildItemFromDTO(ItemReconstructionDTO{ID: "persisted", Type: ItemTypeGame, RefID: "game-1", Price: *shared.NewMoney(500, "INR"), Quantity: 1, StartDate: day("2024-06-02")})},
		TotalAmount: *shared.NewMoney(500, "INR"),
		Status:      StatusPending,
		Version:     1,
	})
	added, err := o.AddItem(roomSpec(1000, 1))
	require.NoError(t, err)

	require.NoError(t, o.RemoveItem(added.ID()))
	assert.Empty(t, o.AddedItems())
	assert.Empty(t, o.RemovedItems())

	require.NoError(t, o.RemoveItem("persisted"))
	require.Len(t, o.RemovedItems(), 1)
	assert.True(t, o.TotalAmount().IsZero())

	err = o.RemoveItem("missing")
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestMarkBooked(t *testing.T) {
	o := newCart(t)
	_, err := o.AddItem(roomSpec(1000, 1))
	require.NoError(t, err)
	o.PullEvents()

	require.NoError(t, o.MarkBooked())
	assert.Equal(t, StatusBooked, o.Status())

	events := o.PullEvents()
	require.Len(t, events, 1)
	booked, ok := events[0].(*OrderBookedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(1000), booked.TotalAmount().Amount())

	err = o.MarkBooked()
	assert.True(t, errors.Is(err, ErrInvalidOrderState))
	assert.Equal(t, StatusBooked, o.Status())
}

func TestCancel(t *testing.T) {
	t.Run("pending cart", func(t *testing.T) {
		o := newCart(t)
		assert.False(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status())
	})

	t.Run("booked order reports inventory", func(t *testing.T) {
		o := newCart(t)
		require.NoError(t, o.MarkBooked())
		o.PullEvents()

		assert.True(t, o.Cancel())
		events := o.PullEvents()
		require.Len(t, events, 1)
		assert.True(t, events[0].(*OrderCancelledEvent).WasBooked())
	})

	t.Run("already cancelled", func(t *testing.T) {
		o := newCart(t)
		require.NoError(t, o.MarkBooked())
		o.Cancel()
		o.PullEvents()

		assert.False(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status())
		assert.Empty(t, o.PullEvents())
	})

	t.Run("completed order", func(t *testing.T) {
		o := RebuildFromDTO(ReconstructionDTO{ID: "order-9", UserID: "user-1", Status: StatusCompleted, TotalAmount: shared.Zero("INR")})
		assert.False(t, o.Cancel())
		assert.Equal(t, StatusCancelled, o.Status())
	})
}

func TestSpecifications(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)
	booked := RebuildFromDTO(ReconstructionDTO{ID: "order-2", UserID: "user-1", Status: StatusBooked})
	other := RebuildFromDTO(ReconstructionDTO{ID: "order-3", UserID: "user-2", Status: StatusPending})

	assert.True(t, CartOf("user-1").IsSatisfiedBy(ctx, cart))
	assert.False(t, CartOf("user-1").IsSatisfiedBy(ctx, booked))
	assert.False(t, CartOf("user-1").IsSatisfiedBy(ctx, other))

	assert.True(t, HistoryOf("user-1").IsSatisfiedBy(ctx, booked))
	assert.False(t, HistoryOf("user-1").IsSatisfiedBy(ctx, cart))
}
