// Package inventory provisions the room catalog and the per-day
// availability cells the reservation engine reserves against.
package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	availabilityRepo "innkeep/database/repository/availability"
	roomRepo "innkeep/database/repository/room"
	"innkeep/models"
)

// InventoryService provisions rooms and availability cells.
type InventoryService interface {
	SeedRooms(ctx context.Context) error
	ProvisionAvailability(ctx context.Context, from time.Time, days int) error
}

// DefaultInventoryService is the production implementation.
type DefaultInventoryService struct {
	RoomRepo         roomRepo.RoomRepository
	AvailabilityRepo availabilityRepo.AvailabilityRepository
}

// SeedRooms writes the standard room catalog: 10 singles, 8 doubles and
// 2 suites at the house nightly rates. Existing rooms are replaced in
// place, so re-seeding is safe.
func (svc *DefaultInventoryService) SeedRooms(ctx context.Context) error {
	var rooms []models.Room
	addRooms := func(roomType models.RoomType, count int) {
		for i := 1; i <= count; i++ {
			rooms = append(rooms, models.Room{
				RoomID:        fmt.Sprintf("%s_%d", roomType, i),
				RoomType:      roomType,
				Capacity:      models.PerRoomCapacity[roomType],
				PricePerNight: models.NightlyPrice[roomType],
				Status:        "available",
			})
		}
	}
	addRooms(models.RoomTypeSingle, 10)
	addRooms(models.RoomTypeDouble, 8)
	addRooms(models.RoomTypeSuite, 2)

	if err := svc.RoomRepo.UpsertMany(ctx, rooms); err != nil {
		return err
	}
	log.Printf("[SeedRooms] Seeded %d rooms", len(rooms))
	return nil
}

// ProvisionAvailability creates one availability cell per (roomType,
// date) over the horizon, capacity taken from the catalog. Cells that
// already exist are left untouched so committed reservations survive
// re-provisioning.
func (svc *DefaultInventoryService) ProvisionAvailability(ctx context.Context, from time.Time, days int) error {
	counts, err := svc.RoomRepo.CountByType(ctx)
	if err != nil {
		return fmt.Errorf("failed to count rooms by type: %w", err)
	}
	if len(counts) == 0 {
		return fmt.Errorf("room catalog is empty; seed rooms before provisioning availability")
	}

	for offset := 0; offset < days; offset++ {
		date := from.AddDate(0, 0, offset).Format("2006-01-02")
		for roomType, capacity := range counts {
			cell := models.InventoryCell{
				RoomType:       roomType,
				Date:           date,
				AvailableUnits: capacity,
			}
			if err := svc.AvailabilityRepo.EnsureCell(ctx, cell); err != nil {
				return fmt.Errorf("failed to provision %s on %s: %w", roomType, date, err)
			}
		}
	}
	log.Printf("[ProvisionAvailability] Provisioned %d day(s) of availability", days)
	return nil
}
