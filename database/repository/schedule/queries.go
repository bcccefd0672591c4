// File: database/repository/schedule/queries.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gymflow/models"
)

func (r *mongoScheduleRepo) GetActiveByOwner(ctx context.Context, ownerID string, kind models.OwnerKind, from, to string) ([]models.RecurringSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Window intersection on inclusive date strings: validFrom <= to AND validTo >= from.
	filter := bson.M{
		"ownerId":   ownerID,
		"ownerKind": kind,
		"status":    models.StatusActive,
	}
	if to != "" {
		filter["validFrom"] = bson.M{"$lte": to}
	}
	if from != "" {
		filter["validTo"] = bson.M{"$gte": from}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.RecurringSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func (r *mongoScheduleRepo) ListByOwner(ctx context.Context, ownerID string, kind models.OwnerKind) ([]models.RecurringSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "validFrom", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID, "ownerKind": kind}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.RecurringSchedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}
