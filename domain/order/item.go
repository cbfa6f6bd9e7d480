package order

import (
	"time"

	"resort/domain/shared"
)

// ItemType selects what an item refers to in the catalog.
type ItemType string

const (
	ItemTypeRoom ItemType = "room"
	ItemTypeGame ItemType = "game"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypeRoom || t == ItemTypeGame
}

// Meta is the typed extra data of an item: RoomMeta for rooms, GameMeta for games.
type Meta interface {
	itemType() ItemType
}

// RoomMeta describes a room stay.
type RoomMeta struct {
	Category    string
	SubCategory string
	Guests      int
}

func (RoomMeta) itemType() ItemType { return ItemTypeRoom }

// GameMeta describes a game session. Slot is free text such as "18:00-19:00".
type GameMeta struct {
	Category string
	Slot     string
}

func (GameMeta) itemType() ItemType { return ItemTypeGame }

// OrderItem is a line of an order. It is owned by the Order aggregate and
// never changes after it is added: title, thumbnail and price are copied
// from the catalog at add time and are not refreshed later.
type OrderItem struct {
	id        string
	itemType  ItemType
	refID     string
	title     string
	thumbnail string
	price     shared.Money
	quantity  int
	startDate time.Time
	endDate   time.Time // zero for games
	meta      Meta
}

// ItemSpec is everything needed to add an item.
type ItemSpec struct {
	Type      ItemType
	RefID     string
	Title     string
	Thumbnail string
	Price     shared.Money
	Quantity  int
	StartDate time.Time
	EndDate   time.Time
	Meta      Meta
}

// ItemReconstructionDTO rebuilds an item from storage.
type ItemReconstructionDTO struct {
	ID        string
	Type      ItemType
	RefID     string
	Title     string
	Thumbnail string
	Price     shared.Money
	Quantity  int
	StartDate time.Time
	EndDate   time.Time
	Meta      Meta
}

func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:        dto.ID,
		itemType:  dto.Type,
		refID:     dto.RefID,
		title:     dto.Title,
		thumbnail: dto.Thumbnail,
		price:     dto.Price,
		quantity:  dto.Quantity,
		startDate: dto.StartDate,
		endDate:   dto.EndDate,
		meta:      dto.Meta,
	}
}

func (item OrderItem) ID() string          { return item.id }
func (item OrderItem) Type() ItemType      { return item.itemType }
func (item OrderItem) RefID() string       { return item.refID }
func (item OrderItem) Title() string       { return item.title }
func (item OrderItem) Thumbnail() string   { return item.thumbnail }
func (item OrderItem) Price() shared.Money { return item.price }
func (item OrderItem) Quantity() int       { return item.quantity }
func (item OrderItem) StartDate() time.Time {
	return item.startDate
}
func (item OrderItem) EndDate() time.Time { return item.endDate }
func (item OrderItem) Meta() Meta         { return item.meta }
func (item OrderItem) IsRoom() bool       { return item.itemType == ItemTypeRoom }

// Subtotal is price × quantity.
func (item OrderItem) Subtotal() (*shared.Money, error) {
	return item.price.Multiply(item.quantity)
}

// validate enforces the per-type date and meta rules.
func (spec ItemSpec) validate() error {
	if !spec.Type.Valid() {
		return NewItemValidationError("type", "item type must be room or game")
	}
	if spec.RefID == "" {
		return NewItemValidationError("ref_id", "item reference is required")
	}
	if spec.Quantity <= 0 {
		return NewItemValidationError("quantity", "quantity must be positive")
	}
	if spec.StartDate.IsZero() {
		return NewItemValidationError("start_date", "start date is required")
	}

	switch spec.Type {
	case ItemTypeRoom:
		if spec.EndDate.IsZero() {
			return NewItemValidationError("end_date", "end date is required for rooms")
		}
		if spec.EndDate.Before(spec.StartDate) {
			return NewItemValidationError("end_date", "end date must not be before start date")
		}
	case ItemTypeGame:
		if !spec.EndDate.IsZero() {
			return NewItemValidationError("end_date", "games take a start date only")
		}
	}

	if spec.Meta != nil && spec.Meta.itemType() != spec.Type {
		return NewItemValidationError("meta", "meta does not match item type")
	}
	return nil
}
