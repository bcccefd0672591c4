// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gymflow/models"
)

// ErrNotFound is returned when no schedule matches the given id.
var ErrNotFound = errors.New("schedule not found")

func (r *mongoScheduleRepo) Create(ctx context.Context, schedule *models.RecurringSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if schedule.Version == 0 {
		schedule.Version = 1
	}
	schedule.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetByID(ctx context.Context, id string) (*models.RecurringSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.RecurringSchedule
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&schedule)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &schedule, nil
}

func (r *mongoScheduleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoScheduleRepo) Supersede(ctx context.Context, oldID string, replacement *models.RecurringSchedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	old, err := r.GetByID(ctx, oldID)
	if err != nil {
		return err
	}

	replacement.ID = uuid.New().String()
	replacement.Version = old.Version + 1
	replacement.Status = models.StatusActive
	replacement.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, replacement); err != nil {
		return fmt.Errorf("failed to insert replacement schedule: %w", err)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": oldID, "status": models.StatusActive},
		bson.M{"$set": bson.M{"status": models.StatusSuperseded}},
	)
	if err != nil {
		return fmt.Errorf("failed to supersede schedule %s: %w", oldID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("schedule %s is no longer active: %w", oldID, ErrNotFound)
	}
	return nil
}
