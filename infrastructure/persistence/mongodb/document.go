package mongodb

import (
	"fmt"
	"math"
	"time"

	"resort/domain/reservation"
	"resort/domain/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bookingDocument is a booking as the previous system stored it. user and
// roomType were ObjectIds there but may be plain strings in documents written
// for users without one, so both are read as raw values. totalAmount is in
// major currency units.
type bookingDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	User         bson.RawValue      `bson:"user"`
	RoomType     bson.RawValue      `bson:"roomType"`
	CheckInDate  time.Time          `bson:"checkInDate"`
	CheckOutDate time.Time          `bson:"checkOutDate"`
	Guests       int                `bson:"guests"`
	TotalAmount  bson.RawValue      `bson:"totalAmount"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// newBookingDocument is the write shape of bookingDocument.
type newBookingDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	User         interface{}        `bson:"user"`
	RoomType     interface{}        `bson:"roomType"`
	CheckInDate  time.Time          `bson:"checkInDate"`
	CheckOutDate time.Time          `bson:"checkOutDate"`
	Guests       int                `bson:"guests"`
	TotalAmount  float64            `bson:"totalAmount"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func fromDomain(res *reservation.Reservation) (newBookingDocument, error) {
	id, err := primitive.ObjectIDFromHex(res.ID())
	if err != nil {
		return newBookingDocument{}, fmt.Errorf("reservation id %q is not an ObjectId: %w", res.ID(), err)
	}
	return newBookingDocument{
		ID:           id,
		User:         refValue(res.UserID()),
		RoomType:     refValue(res.RoomTypeID()),
		CheckInDate:  res.Stay().CheckIn,
		CheckOutDate: res.Stay().CheckOut,
		Guests:       res.Guests(),
		TotalAmount:  float64(res.TotalAmount().Amount()) / 100,
		Status:       string(res.Status()),
		CreatedAt:    res.CreatedAt(),
		UpdatedAt:    res.UpdatedAt(),
	}, nil
}

func (d bookingDocument) toDomain(currency string) (*reservation.Reservation, error) {
	user, err := refString(d.User)
	if err != nil {
		return nil, fmt.Errorf("booking %s: user: %w", d.ID.Hex(), err)
	}
	roomType, err := refString(d.RoomType)
	if err != nil {
		return nil, fmt.Errorf("booking %s: roomType: %w", d.ID.Hex(), err)
	}
	amount, err := minorUnits(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("booking %s: totalAmount: %w", d.ID.Hex(), err)
	}

	return reservation.RebuildFromDTO(reservation.ReconstructionDTO{
		ID:          d.ID.Hex(),
		UserID:      user,
		RoomTypeID:  roomType,
		CheckIn:     d.CheckInDate,
		CheckOut:    d.CheckOutDate,
		Guests:      d.Guests,
		TotalAmount: *shared.NewMoney(amount, currency),
		Status:      reservation.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}), nil
}

// refValue stores ids that look like ObjectIds as ObjectIds, as the previous
// system did, and anything else as a string.
func refValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// refCandidates are the stored forms a reference to id can take.
func refCandidates(id string) bson.A {
	candidates := bson.A{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		candidates = append(candidates, oid)
	}
	return candidates
}

func refString(v bson.RawValue) (string, error) {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex(), nil
	case bson.TypeString:
		return v.StringValue(), nil
	default:
		return "", fmt.Errorf("unsupported reference type %s", v.Type)
	}
}

func minorUnits(v bson.RawValue) (int64, error) {
	switch v.Type {
	case bson.TypeDouble:
		return int64(math.Round(v.Double() * 100)), nil
	case bson.TypeInt32:
		return int64(v.Int32()) * 100, nil
	case bson.TypeInt64:
		return v.Int64() * 100, nil
	case 0, bson.TypeNull:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported amount type %s", v.Type)
	}
}
