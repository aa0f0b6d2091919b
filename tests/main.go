// Seeding tool: provisions the room catalog and opens availability for
// the next 90 days against a running MongoDB instance.
package main

import (
	"context"
	"log"
	"time"

	"innkeep/config"
	"innkeep/database"
	availabilityRepo "innkeep/database/repository/availability"
	roomRepo "innkeep/database/repository/room"
	"innkeep/services/inventory"
)

func main() {
	config.LoadConfig()
	database.InitDB()

	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	rmRepo := roomRepo.NewMongoRoomRepo()

	if err := availRepo.EnsureIndexes(); err != nil {
		log.Fatalf("Failed to ensure availability indexes: %v", err)
	}

	svc := &inventory.DefaultInventoryService{
		RoomRepo:         rmRepo,
		AvailabilityRepo: availRepo,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := svc.SeedRooms(ctx); err != nil {
		log.Fatalf("Failed to seed rooms: %v", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := svc.ProvisionAvailability(ctx, today, 90); err != nil {
		log.Fatalf("Failed to provision availability: %v", err)
	}

	log.Println("Inventory seeded successfully.")
}
