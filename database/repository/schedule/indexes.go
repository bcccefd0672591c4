// File: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the schedules collection.
func (r *mongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: active schedules per owner within a window.
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "ownerKind", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("owner_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "ownerKind", Value: 1}, {Key: "validFrom", Value: 1}, {Key: "validTo", Value: 1}},
			Options: options.Index().SetName("owner_window_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}
	return nil
}
