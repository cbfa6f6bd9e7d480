/*
Package order is the booking aggregate. While Pending an order doubles as
the user's cart; confirming it commits room inventory and freezes its items.

Lifecycle:

	Pending --MarkBooked--> Booked --Cancel--> Cancelled
	Pending --Cancel--> Cancelled
	Completed is set by processes outside the booking core.

Invariants:
 1. totalAmount always equals the sum of price × quantity over items and is
    recomputed from scratch after every mutation.
 2. Only Pending orders accept AddItem and RemoveItem.
 3. At most one Pending order exists per user; storage enforces it.
*/
package order

import (
	"fmt"
	"time"

	"resort/domain/shared"

	"github.com/google/uuid"
)

// Status of an order.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusBooked    Status = "Booked"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Order aggregate root.
type Order struct {
	id          string
	userID      string
	items       []OrderItem
	totalAmount shared.Money
	status      Status
	version     int // optimistic lock, bumped by the repository after a save
	createdAt   time.Time
	updatedAt   time.Time

	events []shared.DomainEvent

	// Dirty tracking so repositories only touch changed item rows
	addedItems   []OrderItem
	removedItems []OrderItem
	isNew        bool
}

// NewCart creates an empty Pending order for userID.
func NewCart(id, userID, currency string) (*Order, error) {
	if id == "" {
		return nil, NewItemValidationError("id", "order id is required")
	}
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}

	now := time.Now()
	return &Order{
		id:          id,
		userID:      userID,
		items:       nil,
		totalAmount: shared.Zero(currency),
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
		isNew:       true,
	}, nil
}

// ReconstructionDTO rebuilds an Order from storage.
// Only repository implementations use it.
type ReconstructionDTO struct {
	ID          string
	UserID      string
	Items       []OrderItem
	TotalAmount shared.Money
	Status      Status
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildFromDTO reconstructs the aggregate as already persisted.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:          dto.ID,
		userID:      dto.UserID,
		items:       append([]OrderItem(nil), dto.Items...),
		totalAmount: dto.TotalAmount,
		status:      dto.Status,
		version:     dto.Version,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
		isNew:       false,
	}
}

// ============================================================================
// Cart behaviour
// ============================================================================

// AddItem appends a snapshot item to the cart.
// No availability check happens here; conflicts surface at confirm time.
func (o *Order) AddItem(spec ItemSpec) (OrderItem, error) {
	if o.status != StatusPending {
		return OrderItem{}, NewNotModifiableError(o.status)
	}
	if err := spec.validate(); err != nil {
		return OrderItem{}, err
	}
	if spec.Price.Currency() != o.totalAmount.Currency() {
		return OrderItem{}, NewItemValidationError("price", "item currency does not match the cart currency")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return OrderItem{}, fmt.Errorf("failed to generate order item ID: %w", err)
	}

	item := OrderItem{
		id:        id.String(),
		itemType:  spec.Type,
		refID:     spec.RefID,
		title:     spec.Title,
		thumbnail: spec.Thumbnail,
		price:     spec.Price,
		quantity:  spec.Quantity,
		startDate: spec.StartDate,
		meta:      spec.Meta,
	}
	if spec.Type == ItemTypeRoom {
		item.endDate = spec.EndDate
	}

	items := append(append([]OrderItem(nil), o.items...), item)
	total, err := sumItems(items, o.totalAmount.Currency())
	if err != nil {
		return OrderItem{}, err
	}

	o.items = items
	o.totalAmount = total
	if !o.isNew {
		o.addedItems = append(o.addedItems, item)
	}
	o.updatedAt = time.Now()
	o.events = append(o.events, NewItemAddedEvent(o.id, o.userID, item))

	return item, nil
}

// RemoveItem drops an item from the cart.
func (o *Order) RemoveItem(itemID string) error {
	if o.status != StatusPending {
		return NewNotModifiableError(o.status)
	}

	idx := -1
	for i, item := range o.items {
		if item.id == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NewItemNotFoundError(itemID)
	}

	removed := o.items[idx]
	items := append(append([]OrderItem(nil), o.items[:idx]...), o.items[idx+1:]...)
	total, err := sumItems(items, o.totalAmount.Currency())
	if err != nil {
		return err
	}
	o.items = items
	o.totalAmount = total

	if !o.isNew {
		addedInSession := false
		for i, added := range o.addedItems {
			if added.id == itemID {
				o.addedItems = append(o.addedItems[:i:i], o.addedItems[i+1:]...)
				addedInSession = true
				break
			}
		}
		if !addedInSession {
			o.removedItems = append(o.removedItems, removed)
		}
	}
	o.updatedAt = time.Now()

	return nil
}

// sumItems recomputes the total from scratch.
func sumItems(items []OrderItem, currency string) (shared.Money, error) {
	total := shared.Zero(currency)
	for _, item := range items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return shared.Money{}, err
		}
		next, err := total.Add(*subtotal)
		if err != nil {
			return shared.Money{}, err
		}
		total = *next
	}
	return total, nil
}

// ============================================================================
// State transitions
// ============================================================================

// MarkBooked moves a Pending order to Booked.
// The caller has already committed every room item to its ledger.
func (o *Order) MarkBooked() error {
	if o.status != StatusPending {
		return NewInvalidOrderStateError(string(o.status), string(StatusBooked))
	}

	o.status = StatusBooked
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderBookedEvent(o.id, o.userID, o.totalAmount))
	return nil
}

// Cancel moves the order to Cancelled from any state and reports whether
// it was Booked, i.e. whether room inventory has to be given back.
func (o *Order) Cancel() (wasBooked bool) {
	wasBooked = o.status == StatusBooked
	if o.status == StatusCancelled {
		return false
	}

	o.status = StatusCancelled
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderCancelledEvent(o.id, o.userID, wasBooked))
	return wasBooked
}

// IncrementVersionForSave is called by repositories after a successful write.
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ============================================================================
// Getters
// ============================================================================

func (o *Order) ID() string     { return o.id }
func (o *Order) UserID() string { return o.userID }

// Items returns a copy of the items.
func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

// RoomItems returns the items that touch a room ledger.
func (o *Order) RoomItems() []OrderItem {
	var rooms []OrderItem
	for _, item := range o.items {
		if item.IsRoom() {
			rooms = append(rooms, item)
		}
	}
	return rooms
}

func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) Status() Status            { return o.status }
func (o *Order) Version() int              { return o.version }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }

// ============================================================================
// Dirty tracking, for repositories only
// ============================================================================

func (o *Order) IsNew() bool { return o.isNew }

func (o *Order) AddedItems() []OrderItem {
	return append([]OrderItem(nil), o.addedItems...)
}

func (o *Order) RemovedItems() []OrderItem {
	return append([]OrderItem(nil), o.removedItems...)
}

func (o *Order) ClearDirtyTracking() {
	o.addedItems = nil
	o.removedItems = nil
	o.isNew = false
}

// PullEvents returns and clears recorded events; the unit of work moves
// them to the outbox inside the transaction.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

var _ shared.AggregateRoot = (*Order)(nil)
