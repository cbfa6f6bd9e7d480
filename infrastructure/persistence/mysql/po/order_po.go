package po

import (
	"encoding/json"
	"fmt"
	"time"

	"resort/domain/order"
	"resort/domain/shared"

	"gorm.io/datatypes"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID            string `gorm:"primaryKey;size:64"`
	UserID        string `gorm:"size:64;index;not null"`
	Status        string `gorm:"size:20;not null"`
	TotalAmount   int64  `gorm:"not null"`
	TotalCurrency string `gorm:"size:3;not null"`

	// PendingOwner holds the user id while the order is Pending and NULL
	// afterwards. The unique index allows one cart per user.
	PendingOwner *string `gorm:"size:64;uniqueIndex:uk_orders_pending_owner"`

	Version   int       `gorm:"default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID        string         `gorm:"primaryKey;size:64"`
	OrderID   string         `gorm:"size:64;index;not null"`
	Position  int            `gorm:"not null"`
	Type      string         `gorm:"size:10;not null"`
	RefID     string         `gorm:"size:64;index;not null"`
	Title     string         `gorm:"size:255;not null"`
	Thumbnail string         `gorm:"size:512"`
	UnitPrice int64          `gorm:"not null"`
	Currency  string         `gorm:"size:3;not null"`
	Quantity  int            `gorm:"not null"`
	StartDate time.Time      `gorm:"not null"`
	EndDate   *time.Time     // NULL for games
	Meta      datatypes.JSON `gorm:"type:json"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// itemMeta is the stored shape of both meta variants.
type itemMeta struct {
	Category    string `json:"category,omitempty"`
	SubCategory string `json:"sub_category,omitempty"`
	Guests      int    `json:"guests,omitempty"`
	Slot        string `json:"slot,omitempty"`
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) *OrderPO {
	orderPO := &OrderPO{
		ID:            o.ID(),
		UserID:        o.UserID(),
		Status:        string(o.Status()),
		TotalAmount:   o.TotalAmount().Amount(),
		TotalCurrency: o.TotalAmount().Currency(),
		Version:       o.Version(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
	if o.Status() == order.StatusPending {
		owner := o.UserID()
		orderPO.PendingOwner = &owner
	}
	return orderPO
}

// FromOrderItemDomain converts one item; position keeps the cart order stable.
func FromOrderItemDomain(orderID string, position int, item order.OrderItem) (OrderItemPO, error) {
	meta, err := encodeMeta(item.Meta())
	if err != nil {
		return OrderItemPO{}, fmt.Errorf("failed to encode item meta: %w", err)
	}

	itemPO := OrderItemPO{
		ID:        item.ID(),
		OrderID:   orderID,
		Position:  position,
		Type:      string(item.Type()),
		RefID:     item.RefID(),
		Title:     item.Title(),
		Thumbnail: item.Thumbnail(),
		UnitPrice: item.Price().Amount(),
		Currency:  item.Price().Currency(),
		Quantity:  item.Quantity(),
		StartDate: item.StartDate(),
		Meta:      meta,
	}
	if !item.EndDate().IsZero() {
		end := item.EndDate()
		itemPO.EndDate = &end
	}
	return itemPO, nil
}

// FromOrderItemsDomain converts every item of o in order.
func FromOrderItemsDomain(o *order.Order) ([]OrderItemPO, error) {
	items := o.Items()
	itemPOs := make([]OrderItemPO, 0, len(items))
	for i, item := range items {
		itemPO, err := FromOrderItemDomain(o.ID(), i, item)
		if err != nil {
			return nil, err
		}
		itemPOs = append(itemPOs, itemPO)
	}
	return itemPOs, nil
}

// ToDomain Convert persistence object to domain model.
// itemPOs must already be sorted by Position.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) (*order.Order, error) {
	items := make([]order.OrderItem, 0, len(itemPOs))
	for _, itemPO := range itemPOs {
		item, err := itemPO.ToDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:          po.ID,
		UserID:      po.UserID,
		Items:       items,
		TotalAmount: *shared.NewMoney(po.TotalAmount, po.TotalCurrency),
		Status:      order.Status(po.Status),
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}), nil
}

func (po *OrderItemPO) ToDomain() (order.OrderItem, error) {
	itemType := order.ItemType(po.Type)
	meta, err := decodeMeta(itemType, po.Meta)
	if err != nil {
		return order.OrderItem{}, fmt.Errorf("failed to decode meta of item %s: %w", po.ID, err)
	}

	dto := order.ItemReconstructionDTO{
		ID:        po.ID,
		Type:      itemType,
		RefID:     po.RefID,
		Title:     po.Title,
		Thumbnail: po.Thumbnail,
		Price:     *shared.NewMoney(po.UnitPrice, po.Currency),
		Quantity:  po.Quantity,
		StartDate: po.StartDate,
		Meta:      meta,
	}
	if po.EndDate != nil {
		dto.EndDate = *po.EndDate
	}
	return order.RebuildItemFromDTO(dto), nil
}

func encodeMeta(meta order.Meta) (datatypes.JSON, error) {
	var stored itemMeta
	switch m := meta.(type) {
	case nil:
		return nil, nil
	case order.RoomMeta:
		stored = itemMeta{Category: m.Category, SubCategory: m.SubCategory, Guests: m.Guests}
	case order.GameMeta:
		stored = itemMeta{Category: m.Category, Slot: m.Slot}
	default:
		return nil, fmt.Errorf("unsupported meta type %T", meta)
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeMeta(itemType order.ItemType, raw datatypes.JSON) (order.Meta, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var stored itemMeta
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	switch itemType {
	case order.ItemTypeRoom:
		return order.RoomMeta{Category: stored.Category, SubCategory: stored.SubCategory, Guests: stored.Guests}, nil
	case order.ItemTypeGame:
		return order.GameMeta{Category: stored.Category, Slot: stored.Slot}, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}
}
