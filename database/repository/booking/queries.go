// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/models"
)

// ListByDateRange returns bookings whose check-in falls inside
// [startDate, endDate], optionally filtered by room type.
func (r *mongoBookingRepo) ListByDateRange(ctx context.Context, roomType, startDate, endDate string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"checkInDate": bson.M{"$gte": startDate, "$lte": endDate},
	}
	if roomType != "" {
		filter["roomRequirement."+roomType] = bson.M{"$gt": 0}
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "checkInDate", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
