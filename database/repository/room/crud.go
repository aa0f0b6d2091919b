// File: database/repository/room/crud.go
package roomRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/models"
)

func (r *mongoRoomRepo) UpsertMany(ctx context.Context, rooms []models.Room) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, 0, len(rooms))
	for _, room := range rooms {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"roomId": room.RoomID}).
			SetReplacement(room).
			SetUpsert(true))
	}

	if _, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("failed to upsert rooms: %w", err)
	}
	return nil
}

func (r *mongoRoomRepo) ListAll(ctx context.Context) ([]models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *mongoRoomRepo) CountByType(ctx context.Context) (map[models.RoomType]int, error) {
	rooms, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[models.RoomType]int)
	for _, room := range rooms {
		if room.Status == "available" {
			counts[room.RoomType]++
		}
	}
	return counts, nil
}
