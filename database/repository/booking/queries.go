// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymflow/models"
)

func (r *mongoBookingRepo) GetActiveByOwner(ctx context.Context, ownerID string, kind models.OwnerKind, from, to string) ([]models.SessionBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dateFilter := bson.M{}
	if from != "" {
		dateFilter["$gte"] = from
	}
	if to != "" {
		dateFilter["$lte"] = to
	}
	filter := bson.M{
		"ownerId":   ownerID,
		"ownerKind": kind,
		"status":    models.StatusActive,
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.SessionBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) ListByOwner(ctx context.Context, ownerID string, kind models.OwnerKind) ([]models.SessionBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "interval.start", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID, "ownerKind": kind}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.SessionBooking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) ExpirePast(ctx context.Context, cutoff string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"status": models.StatusActive, "date": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{"status": models.StatusExpired}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire past bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
