// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"gymflow/database"
	"gymflow/models"
)

// ScheduleRepository persists recurring weekly schedules. Slot edits go
// through Supersede so a schedule's slots are never rewritten in place.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.RecurringSchedule) error
	GetByID(ctx context.Context, id string) (*models.RecurringSchedule, error)
	// GetActiveByOwner returns active schedules whose validity window could
	// intersect [from, to]. Coarse filter; the conflict engine re-validates.
	GetActiveByOwner(ctx context.Context, ownerID string, kind models.OwnerKind, from, to string) ([]models.RecurringSchedule, error)
	ListByOwner(ctx context.Context, ownerID string, kind models.OwnerKind) ([]models.RecurringSchedule, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// Supersede marks the old version superseded and inserts the replacement.
	Supersede(ctx context.Context, oldID string, replacement *models.RecurringSchedule) error
	EnsureIndexes() error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a MongoDB-backed ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.MongoClient.Database("gymflow")
	return &mongoScheduleRepo{
		coll: db.Collection("schedules"),
	}
}
