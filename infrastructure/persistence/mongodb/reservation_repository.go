package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resort/domain/reservation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReservationRepository reads and writes the legacy bookings collection.
type ReservationRepository struct {
	collection *mongo.Collection
	currency   string
}

// NewReservationRepository stores amounts in currency, the only currency the
// legacy collection ever held.
func NewReservationRepository(collection *mongo.Collection, currency string) *ReservationRepository {
	return &ReservationRepository{collection: collection, currency: currency}
}

func (r *ReservationRepository) NextIdentity() string {
	return primitive.NewObjectID().Hex()
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	doc, err := fromDomain(res)
	if err != nil {
		return err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id, userID string) (*reservation.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, reservation.NewReservationNotFoundError(id)
	}

	filter := bson.M{
		"_id":  oid,
		"user": bson.M{"$in": refCandidates(userID)},
	}
	var doc bookingDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservation.NewReservationNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return doc.toDomain(r.currency)
}

func (r *ReservationRepository) FindByUserID(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	filter := bson.M{"user": bson.M{"$in": refCandidates(userID)}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	result := make([]*reservation.Reservation, 0, len(docs))
	for _, doc := range docs {
		res, err := doc.toDomain(r.currency)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, nil
}

// Save writes the fields a reservation can change after creation.
func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	oid, err := primitive.ObjectIDFromHex(res.ID())
	if err != nil {
		return reservation.NewReservationNotFoundError(res.ID())
	}

	updatedAt := res.UpdatedAt()
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"status":    string(res.Status()),
			"updatedAt": updatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return reservation.NewReservationNotFoundError(res.ID())
	}
	return nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
