// File: database/repository/room/interface.go
package roomRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"innkeep/database"
	"innkeep/models"
)

// RoomRepository manages the static room catalog. Capacity per
// (roomType, date) availability cell is derived from the catalog at
// provisioning time and never mutated by the reservation flow.
type RoomRepository interface {
	UpsertMany(ctx context.Context, rooms []models.Room) error
	ListAll(ctx context.Context) ([]models.Room, error)
	CountByType(ctx context.Context) (map[models.RoomType]int, error)
}

type mongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo constructs a new MongoDB RoomRepository.
func NewMongoRoomRepo() RoomRepository {
	return &mongoRoomRepo{
		coll: database.Collection("rooms"),
	}
}
