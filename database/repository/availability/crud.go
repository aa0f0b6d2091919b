// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/models"
)

func (r *mongoAvailabilityRepo) ConditionalDecrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"roomType":       roomType,
		"date":           date,
		"availableUnits": bson.M{"$gte": count},
	}
	update := bson.M{
		"$inc":  bson.M{"availableUnits": -count},
		"$push": bson.M{"bookingIds": bookingID},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement availability for %s on %s: %w", roomType, date, err)
	}
	if res.MatchedCount == 0 {
		return ErrConditionFailed
	}
	return nil
}

func (r *mongoAvailabilityRepo) ConditionalIncrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The owner id is removed by value, not by positional index, so
	// concurrent releases on the same cell cannot remove the wrong
	// booking's entry.
	filter := bson.M{
		"roomType":   roomType,
		"date":       date,
		"bookingIds": bookingID,
	}
	update := bson.M{
		"$inc":  bson.M{"availableUnits": count},
		"$pull": bson.M{"bookingIds": bookingID},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to increment availability for %s on %s: %w", roomType, date, err)
	}
	if res.MatchedCount == 0 {
		return ErrConditionFailed
	}
	return nil
}

func (r *mongoAvailabilityRepo) EnsureCell(ctx context.Context, cell models.InventoryCell) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"roomType": cell.RoomType, "date": cell.Date}
	update := bson.M{
		"$setOnInsert": bson.M{
			"roomType":       cell.RoomType,
			"date":           cell.Date,
			"availableUnits": cell.AvailableUnits,
			"bookingIds":     []string{},
		},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to provision availability cell %s/%s: %w", cell.RoomType, cell.Date, err)
	}
	return nil
}
