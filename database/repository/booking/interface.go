// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"gymflow/database"
	"gymflow/models"
)

// BookingRepository persists one-off session bookings (makeup classes,
// single room reservations).
type BookingRepository interface {
	Create(ctx context.Context, booking *models.SessionBooking) error
	GetByID(ctx context.Context, id string) (*models.SessionBooking, error)
	// GetActiveByOwner returns active bookings dated within [from, to].
	GetActiveByOwner(ctx context.Context, ownerID string, kind models.OwnerKind, from, to string) ([]models.SessionBooking, error)
	ListByOwner(ctx context.Context, ownerID string, kind models.OwnerKind) ([]models.SessionBooking, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ExpirePast flips active bookings dated strictly before the cutoff to
	// expired. Returns the number of bookings touched.
	ExpirePast(ctx context.Context, cutoff string) (int64, error)
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("gymflow")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
