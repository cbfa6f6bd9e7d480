/*
Package booking runs the order lifecycle (confirm, cancel, direct create)
and the read side that merges orders with legacy reservations.

Responsibilities of Service:
 1. Confirm a cart atomically: every room item is committed to its ledger
    or none is, and the first conflict aborts the whole unit of work
 2. Cancel an order or, failing that, a legacy reservation, giving room
    inventory back when the booking still held it
 3. Create a standalone reservation through the legacy shortcut

Ledger writes go through the unit of work, which also moves the raised
events to the outbox. Cached ledger snapshots and room listings are dropped
only after the unit of work has committed.
*/
package booking

import (
	"context"
	"errors"
	"time"

	orderapp "resort/application/order"
	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"
	"resort/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "resort/application/booking"

// Dependencies wires the booking services.
type Dependencies struct {
	Orders       order.Repository
	Catalog      catalog.Repository
	Listings     catalog.ListingFinder // defaults to Catalog
	Reservations reservation.Repository
	UoWFactory   shared.UnitOfWorkFactory
	LedgerCache  catalog.LedgerCache // defaults to catalog.NopLedgerCache
	Location     *time.Location      // defaults to time.Local
	Tracer       trace.Tracer        // defaults to the global provider
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Listings == nil {
		d.Listings = d.Catalog
	}
	if d.LedgerCache == nil {
		d.LedgerCache = catalog.NopLedgerCache{}
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	return d
}

// Service is the order lifecycle application service
type Service struct {
	orders        order.Repository
	rooms         catalog.Repository
	listings      catalog.ListingFinder
	reservations  reservation.Repository
	domainService *order.DomainService
	uowFactory    shared.UnitOfWorkFactory
	ledgerCache   catalog.LedgerCache
	location      *time.Location
	tracer        trace.Tracer
}

// NewService creates the order lifecycle service
func NewService(deps Dependencies) *Service {
	deps = deps.withDefaults()
	return &Service{
		orders:        deps.Orders,
		rooms:         deps.Catalog,
		listings:      deps.Listings,
		reservations:  deps.Reservations,
		domainService: order.NewDomainService(deps.Catalog, deps.Location),
		uowFactory:    deps.UoWFactory,
		ledgerCache:   deps.LedgerCache,
		location:      deps.Location,
		tracer:        deps.Tracer,
	}
}

// Confirm books a Pending order.
//
// The order row and every referenced room row are loaded inside one unit of
// work, rooms in ascending id order. Each room item is normalized to whole
// days and checked against its room's ledger; the first overlap aborts with
// catalog.ErrRoomAlreadyBooked and nothing is written. Game items never
// conflict.
func (s *Service) Confirm(ctx context.Context, orderID, userID string) (*orderapp.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Confirm", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		return nil, fail(span, shared.NewUnauthorizedError("user identity is required"))
	}

	var (
		o       *order.Order
		touched []string
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, orderID, userID)
		if err != nil {
			return err
		}

		rooms, err := s.domainService.ReserveRooms(ctx, o)
		if err != nil {
			return err
		}

		touched = touched[:0]
		for _, room := range rooms {
			if err := s.rooms.SaveRoomType(ctx, room); err != nil {
				return err
			}
			uow.RegisterDirty(room)
			touched = append(touched, room.ID())
		}

		if err := o.MarkBooked(); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Warn("Booking confirmation rejected",
			zap.String("order_id", orderID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return nil, fail(span, err)
	}

	s.ledgerCache.Invalidate(ctx, touched...)
	span.SetAttributes(attribute.Int("rooms.reserved", len(touched)))

	logger.FromContext(ctx).Info("Booking confirmed",
		zap.String("order_id", o.ID()),
		zap.String("user_id", userID),
		zap.Strings("room_ids", touched),
		zap.Int64("total_amount", o.TotalAmount().Amount()),
	)
	return orderapp.FromOrder(o), nil
}

// Cancel cancels the user's order, or the user's legacy reservation when no
// order has that id. The status becomes Cancelled from any state. Room
// inventory is released only when the booking was still holding it; rooms
// that no longer exist and ranges missing from a ledger are skipped.
func (s *Service) Cancel(ctx context.Context, bookingID, userID string) (*orderapp.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		return nil, fail(span, shared.NewUnauthorizedError("user identity is required"))
	}

	resp, err := s.cancelOrder(ctx, bookingID, userID)
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, order.ErrOrderNotFound) {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Bool("booking.legacy", true))
	resp, err = s.cancelReservation(ctx, bookingID, userID)
	if err != nil {
		return nil, fail(span, err)
	}
	return resp, nil
}

func (s *Service) cancelOrder(ctx context.Context, orderID, userID string) (*orderapp.OrderResponse, error) {
	log := logger.FromContext(ctx)

	var (
		o      *order.Order
		report order.ReleaseReport
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, orderID, userID)
		if err != nil {
			return err
		}

		report = order.ReleaseReport{}
		if wasBooked := o.Cancel(); wasBooked {
			report, err = s.domainService.ReleaseRooms(ctx, o)
			if err != nil {
				return err
			}
			for _, room := range report.Rooms {
				if err := s.rooms.SaveRoomType(ctx, room); err != nil {
					return err
				}
				uow.RegisterDirty(room)
			}
		}

		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	released := make([]string, 0, len(report.Rooms))
	for _, room := range report.Rooms {
		released = append(released, room.ID())
	}
	s.ledgerCache.Invalidate(ctx, released...)

	for _, id := range report.MissingRoomIDs {
		log.Warn("Ledger release skipped, room no longer exists",
			zap.String("order_id", orderID),
			zap.String("room_id", id),
		)
	}
	for _, item := range report.Unmatched {
		log.Warn("Stay not found in ledger, unit given back",
			zap.String("order_id", orderID),
			zap.String("room_id", item.RefID()),
			zap.Stringer("stay", s.domainService.Stay(item)),
		)
	}

	log.Info("Booking cancelled",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.Strings("released_room_ids", released),
	)
	return orderapp.FromOrder(o), nil
}

// cancelReservation cancels a legacy reservation. The reservation store is
// not transactional with the catalog, so the status is saved first and the
// ledger is released afterwards on a best effort basis.
func (s *Service) cancelReservation(ctx context.Context, id, userID string) (*orderapp.OrderResponse, error) {
	log := logger.FromContext(ctx)

	r, err := s.reservations.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	holdsInventory := r.Cancel()
	if err := s.reservations.Save(ctx, r); err != nil {
		return nil, err
	}

	if holdsInventory {
		stay := calendar.Normalize(r.Stay().CheckIn, r.Stay().CheckOut, s.location)
		released, err := s.releaseStay(ctx, r.RoomTypeID(), stay)
		switch {
		case err != nil:
			log.Error("Ledger release failed for cancelled reservation",
				zap.String("reservation_id", id),
				zap.String("room_id", r.RoomTypeID()),
				zap.Error(err),
			)
		case !released:
			log.Warn("Stay not released for cancelled reservation",
				zap.String("reservation_id", id),
				zap.String("room_id", r.RoomTypeID()),
				zap.Stringer("stay", stay),
			)
		}
	}

	log.Info("Legacy booking cancelled",
		zap.String("reservation_id", id),
		zap.String("user_id", userID),
	)
	return orderapp.FromReservation(r, s.roomListing(ctx, r.RoomTypeID())), nil
}

// CreateDirect books a room stay without a cart.
//
// The conflict check and the ledger write happen in one unit of work; the
// reservation is stored afterwards. If storing it fails the stay is given
// back to the ledger.
func (s *Service) CreateDirect(ctx context.Context, userID string, req CreateDirectRequest) (*orderapp.OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "booking.CreateDirect", trace.WithAttributes(
		attribute.String("room.id", req.RoomTypeID),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if userID == "" {
		return nil, fail(span, shared.NewUnauthorizedError("user identity is required"))
	}
	stay, err := s.directStay(req)
	if err != nil {
		return nil, fail(span, err)
	}

	var room *catalog.RoomType
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		room, err = s.rooms.FindRoomByID(ctx, req.RoomTypeID)
		if err != nil {
			return err
		}
		if err := room.Reserve(stay); err != nil {
			return err
		}
		if err := s.rooms.SaveRoomType(ctx, room); err != nil {
			return err
		}
		uow.RegisterDirty(room)
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}
	s.ledgerCache.Invalidate(ctx, room.ID())

	r, err := s.storeReservation(ctx, userID, room, stay, req.Guests)
	if err != nil {
		if _, releaseErr := s.releaseStay(ctx, room.ID(), stay); releaseErr != nil {
			logger.FromContext(ctx).Error("Failed to give back stay after reservation error",
				zap.String("room_id", room.ID()),
				zap.Stringer("stay", stay),
				zap.Error(releaseErr),
			)
		}
		return nil, fail(span, err)
	}

	logger.FromContext(ctx).Info("Direct booking created",
		zap.String("reservation_id", r.ID()),
		zap.String("user_id", userID),
		zap.String("room_id", room.ID()),
		zap.Stringer("stay", stay),
	)
	return orderapp.FromReservation(r, room.Listing()), nil
}

func (s *Service) directStay(req CreateDirectRequest) (calendar.Range, error) {
	if req.RoomTypeID == "" {
		return calendar.Range{}, shared.NewValidationError("reservation", "room_type_id", "room type is required")
	}
	checkIn, err := calendar.ParseDate(req.CheckInDate, s.location)
	if err != nil {
		return calendar.Range{}, shared.NewValidationError("reservation", "check_in_date", err.Error())
	}
	checkOut, err := calendar.ParseDate(req.CheckOutDate, s.location)
	if err != nil {
		return calendar.Range{}, shared.NewValidationError("reservation", "check_out_date", err.Error())
	}
	if checkOut.Before(checkIn) {
		return calendar.Range{}, shared.NewValidationError("reservation", "check_out_date", "check-out must not be before check-in")
	}
	return calendar.Normalize(checkIn, checkOut, s.location), nil
}

// storeReservation prices the stay at the room's nightly rate per night.
func (s *Service) storeReservation(ctx context.Context, userID string, room *catalog.RoomType, stay calendar.Range, guests int) (*reservation.Reservation, error) {
	total, err := room.PricePerNight().Multiply(stay.Nights())
	if err != nil {
		return nil, err
	}
	r, err := reservation.New(s.reservations.NextIdentity(), userID, room.ID(), stay, guests, *total)
	if err != nil {
		return nil, err
	}
	if err := s.reservations.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// releaseStay gives a unit of the room back and removes stay from its ledger
// in its own unit of work. It reports false when the room is gone or holds
// no such range.
func (s *Service) releaseStay(ctx context.Context, roomID string, stay calendar.Range) (bool, error) {
	var found, matched bool
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		found, matched = false, false
		room, err := s.rooms.FindRoomByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		matched = room.Release(stay)
		if err := s.rooms.SaveRoomType(ctx, room); err != nil {
			return err
		}
		uow.RegisterDirty(room)
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if found {
		s.ledgerCache.Invalidate(ctx, roomID)
	}
	return found && matched, nil
}

// roomListing looks a room up for display; nil when it cannot be resolved.
func (s *Service) roomListing(ctx context.Context, roomID string) *catalog.Listing {
	listing, err := s.listings.RoomListing(ctx, roomID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			logger.FromContext(ctx).Warn("Room listing lookup failed", zap.String("room_id", roomID), zap.Error(err))
		}
		return nil
	}
	return listing
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
