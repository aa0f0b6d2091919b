// File: database/repository/availability/queries.go
package availabilityRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/models"
)

func (r *mongoAvailabilityRepo) Get(ctx context.Context, roomType models.RoomType, date string) (*models.InventoryCell, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"roomType": roomType, "date": date}
	var cell models.InventoryCell
	if err := r.coll.FindOne(ctx, filter).Decode(&cell); err != nil {
		return nil, err
	}
	return &cell, nil
}

func (r *mongoAvailabilityRepo) GetRange(ctx context.Context, roomType models.RoomType, startDate, endDate string) ([]models.InventoryCell, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"roomType": roomType,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cells []models.InventoryCell
	if err := cursor.All(ctx, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}
