package po

import (
	"testing"
	"time"

	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithItems(t *testing.T) *order.Order {
	t.Helper()
	cart, err := order.NewCart("order-1", "user-1", "INR")
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = cart.AddItem(order.ItemSpec{
		Type:      order.ItemTypeRoom,
		RefID:     "room-1",
		Title:     "Lake View Villa",
		Price:     *shared.NewMoney(1500000, "INR"),
		Quantity:  1,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Meta:      order.RoomMeta{Category: "Villas", SubCategory: "Lake", Guests: 3},
	})
	require.NoError(t, err)
	_, err = cart.AddItem(order.ItemSpec{
		Type:      order.ItemTypeGame,
		RefID:     "game-golf",
		Title:     "Golf",
		Price:     *shared.NewMoney(50000, "INR"),
		Quantity:  2,
		StartDate: start,
		Meta:      order.GameMeta{Category: "Outdoor", Slot: "18:00-19:00"},
	})
	require.NoError(t, err)
	return cart
}

func TestFromOrderDomain_PendingOwner(t *testing.T) {
	cart := cartWithItems(t)

	orderPO := FromOrderDomain(cart)
	require.NotNil(t, orderPO.PendingOwner)
	assert.Equal(t, "user-1", *orderPO.PendingOwner)
	assert.Equal(t, int64(1600000), orderPO.TotalAmount)

	require.NoError(t, cart.MarkBooked())
	orderPO = FromOrderDomain(cart)
	assert.Nil(t, orderPO.PendingOwner)
	assert.Equal(t, "Booked", orderPO.Status)
}

func TestOrderPO_ToDomainKeepsItems(t *testing.T) {
	cart := cartWithItems(t)
	orderPO := FromOrderDomain(cart)
	itemPOs, err := FromOrderItemsDomain(cart)
	require.NoError(t, err)
	require.Len(t, itemPOs, 2)

	assert.NotNil(t, itemPOs[0].EndDate)
	assert.Nil(t, itemPOs[1].EndDate)
	assert.JSONEq(t, `{"category":"Villas","sub_category":"Lake","guests":3}`, string(itemPOs[0].Meta))
	assert.JSONEq(t, `{"category":"Outdoor","slot":"18:00-19:00"}`, string(itemPOs[1].Meta))

	rebuilt, err := orderPO.ToDomain(itemPOs)
	require.NoError(t, err)

	items := rebuilt.Items()
	require.Len(t, items, 2)
	assert.Equal(t, order.RoomMeta{Category: "Villas", SubCategory: "Lake", Guests: 3}, items[0].Meta())
	assert.Equal(t, order.GameMeta{Category: "Outdoor", Slot: "18:00-19:00"}, items[1].Meta())
	assert.True(t, items[1].EndDate().IsZero())
	assert.True(t, rebuilt.TotalAmount().Equals(cart.TotalAmount()))
	assert.False(t, rebuilt.IsNew())
}

func TestOrderItemPO_ToDomainRejectsBadMeta(t *testing.T) {
	itemPO := OrderItemPO{ID: "i-1", Type: "room", Meta: []byte(`{"guests":"many"}`)}
	_, err := itemPO.ToDomain()
	assert.Error(t, err)

	itemPO = OrderItemPO{ID: "i-2", Type: "spa", Meta: []byte(`{}`)}
	_, err = itemPO.ToDomain()
	assert.Error(t, err)
}

func TestRoomTypePO_Ledger(t *testing.T) {
	stay := calendar.Normalize(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.UTC,
	)
	roomPO, ranges, err := FromRoomDTO(catalog.RoomReconstructionDTO{
		ID:             "room-1",
		Name:           "Lake View Villa",
		PricePerNight:  *shared.NewMoney(1500000, "INR"),
		AvailableRooms: 1,
		Amenities:      []string{"wifi", "breakfast"},
		BookedDates:    []calendar.Range{stay},
	})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, "room-1", ranges[0].RoomTypeID)

	room, err := roomPO.ToDomain(ranges)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "breakfast"}, room.Amenities())
	require.Len(t, room.BookedDates(), 1)
	assert.True(t, room.BookedDates()[0].Equal(stay))
	assert.Equal(t, "INR", room.PricePerNight().Currency())
}

func TestFromDomainEvent(t *testing.T) {
	cart := cartWithItems(t)
	events := cart.PullEvents()
	require.NotEmpty(t, events)

	outboxPO, err := FromDomainEvent(events[0])
	require.NoError(t, err)
	assert.Equal(t, "PENDING", outboxPO.Status)
	assert.Equal(t, "order-1", outboxPO.AggregateID)

	data, err := outboxPO.ToEventData()
	require.NoError(t, err)
	assert.Equal(t, "order.item_added", data["event_name"])

	msg := outboxPO.ToMessage()
	assert.Equal(t, outboxPO.ID, msg.ID)
	assert.Equal(t, outboxPO.Payload, msg.Payload)
}
