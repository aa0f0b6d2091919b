// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"innkeep/database"
	"innkeep/models"
)

// ErrConditionFailed is returned when a conditional update matched no
// document: either the guard (enough units, or ownership) did not hold,
// or the cell does not exist.
var ErrConditionFailed = errors.New("conditional update failed")

// AvailabilityRepository is the thin adapter over the availability
// store. Every mutation goes through a filter-guarded conditional
// update evaluated by the store itself; there is no blind
// read-modify-write path.
type AvailabilityRepository interface {
	Get(ctx context.Context, roomType models.RoomType, date string) (*models.InventoryCell, error)
	GetRange(ctx context.Context, roomType models.RoomType, startDate, endDate string) ([]models.InventoryCell, error)

	// ConditionalDecrement subtracts count units from the cell, guarded
	// by availableUnits >= count, and appends bookingID to the owner
	// list. Returns ErrConditionFailed if the guard does not hold.
	ConditionalDecrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error

	// ConditionalIncrement adds count units back to the cell, guarded by
	// bookingID being present in the owner list, and removes the id by
	// value. Returns ErrConditionFailed if bookingID does not own a unit
	// on the cell (already released, or never committed).
	ConditionalIncrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error

	// EnsureCell provisions a cell if absent; existing cells are left
	// untouched so reservation state survives re-seeding.
	EnsureCell(ctx context.Context, cell models.InventoryCell) error

	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.Collection("roomAvailability"),
	}
}
