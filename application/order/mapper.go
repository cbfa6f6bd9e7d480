package order

import (
	"resort/domain/order"
	"resort/domain/shared"
)

// FromOrder renders an order aggregate.
func FromOrder(o *order.Order) *OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, toItemResponse(item))
	}

	return &OrderResponse{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       items,
		TotalAmount: toMoneyResponse(o.TotalAmount()),
		Status:      string(o.Status()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// FromOrders renders a list of orders, keeping their order.
func FromOrders(orders []*order.Order) []*OrderResponse {
	responses := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = FromOrder(o)
	}
	return responses
}

// EmptyCart is returned when the user has no Pending order yet.
// It has no id and is never stored.
func EmptyCart(userID, currency string) *OrderResponse {
	return &OrderResponse{
		UserID:      userID,
		Items:       []ItemResponse{},
		TotalAmount: MoneyResponse{Amount: 0, Currency: currency},
		Status:      string(order.StatusPending),
	}
}

func toItemResponse(item order.OrderItem) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID(),
		Type:      string(item.Type()),
		RefID:     item.RefID(),
		Title:     item.Title(),
		Thumbnail: item.Thumbnail(),
		UnitPrice: toMoneyResponse(item.Price()),
		Quantity:  item.Quantity(),
		StartDate: item.StartDate(),
		EndDate:   item.EndDate(),
		Meta:      toMetaResponse(item.Meta()),
	}
	if subtotal, err := item.Subtotal(); err == nil {
		resp.Subtotal = toMoneyResponse(*subtotal)
	}
	return resp
}

func toMetaResponse(meta order.Meta) MetaResponse {
	switch m := meta.(type) {
	case order.RoomMeta:
		return MetaResponse{Category: m.Category, SubCategory: m.SubCategory, Guests: m.Guests}
	case order.GameMeta:
		return MetaResponse{Category: m.Category, Slot: m.Slot}
	default:
		return MetaResponse{}
	}
}

func toMoneyResponse(m shared.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   m.Amount(),
		Currency: m.Currency(),
	}
}
