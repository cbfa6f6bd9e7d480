/*
Package cart orchestrates the user's Pending order.

Responsibilities:
 1. Validate add-to-cart requests and snapshot the catalog listing
 2. Locate or lazily create the single Pending order of a user
 3. Persist the cart and its events in one unit of work

No availability check happens here. A room already booked for the chosen
dates can sit in a cart; the conflict surfaces when the cart is confirmed.
*/
package cart

import (
	"context"
	"errors"
	"time"

	orderapp "resort/application/order"
	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/shared"
	"resort/pkg/logger"

	"go.uber.org/zap"
)

// Service is the cart application service
type Service struct {
	orders     order.Repository
	listings   catalog.ListingFinder
	uowFactory shared.UnitOfWorkFactory
	currency   string
	location   *time.Location
}

// NewService creates the cart service. Carts are priced in currency and
// request dates are read as calendar days in loc.
func NewService(
	orders order.Repository,
	listings catalog.ListingFinder,
	uowFactory shared.UnitOfWorkFactory,
	currency string,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		orders:     orders,
		listings:   listings,
		uowFactory: uowFactory,
		currency:   currency,
		location:   loc,
	}
}

// AddItem snapshots the referenced listing into the user's cart, creating
// the cart on first use.
func (s *Service) AddItem(ctx context.Context, userID string, req AddItemRequest) (*orderapp.OrderResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}

	spec, err := s.itemSpec(ctx, req)
	if err != nil {
		return nil, err
	}

	var cart *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.pendingOrNew(ctx, userID)
		if err != nil {
			return err
		}

		if _, err := cart.AddItem(spec); err != nil {
			return err
		}

		if err := s.orders.Save(ctx, cart); err != nil {
			return err
		}
		uow.RegisterDirty(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Item added to cart",
		zap.String("order_id", cart.ID()),
		zap.String("user_id", userID),
		zap.String("type", req.Type),
		zap.String("ref_id", req.RefID),
		zap.Int64("total_amount", cart.TotalAmount().Amount()),
	)
	return orderapp.FromOrder(cart), nil
}

// GetCart returns the user's Pending order, or an empty cart if there is none.
func (s *Service) GetCart(ctx context.Context, userID string) (*orderapp.OrderResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}

	cart, err := s.orders.FindPendingByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return orderapp.EmptyCart(userID, s.currency), nil
		}
		return nil, err
	}
	return orderapp.FromOrder(cart), nil
}

// RemoveItem drops a line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*orderapp.OrderResponse, error) {
	if userID == "" {
		return nil, shared.NewUnauthorizedError("user identity is required")
	}

	var cart *order.Order
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		cart, err = s.orders.FindPendingByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				return order.NewItemNotFoundError(itemID)
			}
			return err
		}

		if err := cart.RemoveItem(itemID); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, cart); err != nil {
			return err
		}
		uow.RegisterDirty(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Item removed from cart",
		zap.String("order_id", cart.ID()),
		zap.String("item_id", itemID),
	)
	return orderapp.FromOrder(cart), nil
}

// pendingOrNew loads the cart or starts a new one. Two first adds racing
// each other both build a new cart; the loser's save fails the pending
// owner check and the retried unit of work finds the winner's cart.
func (s *Service) pendingOrNew(ctx context.Context, userID string) (*order.Order, error) {
	cart, err := s.orders.FindPendingByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, order.ErrOrderNotFound) {
		return nil, err
	}
	return order.NewCart(s.orders.NextIdentity(), userID, s.currency)
}

// itemSpec validates the request and resolves the listing it refers to.
// Request shape errors win over a missing listing.
func (s *Service) itemSpec(ctx context.Context, req AddItemRequest) (order.ItemSpec, error) {
	if req.RefID == "" {
		return order.ItemSpec{}, order.NewItemValidationError("ref_id", "type and refId are required")
	}

	quantity := req.Quantity
	if quantity < 0 {
		return order.ItemSpec{}, order.NewItemValidationError("quantity", "quantity must not be negative")
	}
	if quantity == 0 {
		quantity = 1
	}

	switch order.ItemType(req.Type) {
	case order.ItemTypeRoom:
		return s.roomSpec(ctx, req, quantity)
	case order.ItemTypeGame:
		return s.gameSpec(ctx, req, quantity)
	default:
		return order.ItemSpec{}, order.NewItemValidationError("type", "invalid type, use 'room' or 'game'")
	}
}

func (s *Service) roomSpec(ctx context.Context, req AddItemRequest, quantity int) (order.ItemSpec, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return order.ItemSpec{}, order.NewItemValidationError("start_date", "startDate and endDate are required for room")
	}
	start, err := s.parseDate("start_date", req.StartDate)
	if err != nil {
		return order.ItemSpec{}, err
	}
	end, err := s.parseDate("end_date", req.EndDate)
	if err != nil {
		return order.ItemSpec{}, err
	}
	if end.Before(start) {
		return order.ItemSpec{}, order.NewItemValidationError("end_date", "end date must not be before start date")
	}

	listing, err := s.listings.RoomListing(ctx, req.RefID)
	if err != nil {
		return order.ItemSpec{}, err
	}

	guests := req.Guests
	if guests < 1 {
		guests = 1
	}
	return order.ItemSpec{
		Type:      order.ItemTypeRoom,
		RefID:     listing.ID,
		Title:     listing.Title,
		Thumbnail: listing.Thumbnail,
		Price:     listing.UnitPrice(),
		Quantity:  quantity,
		StartDate: start,
		EndDate:   end,
		Meta: order.RoomMeta{
			Category:    listing.Category,
			SubCategory: listing.SubCategory,
			Guests:      guests,
		},
	}, nil
}

func (s *Service) gameSpec(ctx context.Context, req AddItemRequest, quantity int) (order.ItemSpec, error) {
	if req.StartDate == "" {
		return order.ItemSpec{}, order.NewItemValidationError("start_date", "startDate is required for game")
	}
	start, err := s.parseDate("start_date", req.StartDate)
	if err != nil {
		return order.ItemSpec{}, err
	}

	listing, err := s.listings.GameListing(ctx, req.RefID)
	if err != nil {
		return order.ItemSpec{}, err
	}

	return order.ItemSpec{
		Type:      order.ItemTypeGame,
		RefID:     listing.ID,
		Title:     listing.Title,
		Thumbnail: listing.Thumbnail,
		Price:     listing.UnitPrice(),
		Quantity:  quantity,
		StartDate: start,
		Meta: order.GameMeta{
			Category: listing.Category,
			Slot:     req.Slot,
		},
	}, nil
}

func (s *Service) parseDate(field, value string) (time.Time, error) {
	t, err := calendar.ParseDate(value, s.location)
	if err != nil {
		return time.Time{}, order.NewItemValidationError(field, err.Error())
	}
	return t, nil
}
