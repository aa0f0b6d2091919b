package booking

import (
	"innkeep/models"
)

// PlanRoomRequirement turns a guest count (and optional explicit room
// configuration) into the rooms needed per night of the stay.
//
// When both roomType and rooms are given, the configuration is used
// verbatim after checking it actually seats the party. Otherwise rooms
// are filled greedily from the largest type downward: one suite per 3
// remaining guests, one double per 2, one single per 1. The greedy rule
// is deliberate and deterministic; 4 guests plan to a suite plus a
// single, not two doubles.
func PlanRoomRequirement(guestCount int, roomType models.RoomType, rooms int) (models.RoomRequirement, error) {
	if guestCount < 1 {
		return nil, NewValidationError("guestCount must be a positive number")
	}

	if roomType != "" && rooms > 0 {
		seats := models.PerRoomCapacity[roomType] * rooms
		if guestCount > seats {
			return nil, &InsufficientCapacityError{
				RoomType:   roomType,
				Rooms:      rooms,
				GuestCount: guestCount,
				Seats:      seats,
			}
		}
		return models.RoomRequirement{roomType: rooms}, nil
	}

	req := models.RoomRequirement{}
	remaining := guestCount
	for remaining > 0 {
		switch {
		case remaining >= 3:
			req[models.RoomTypeSuite]++
			remaining -= 3
		case remaining >= 2:
			req[models.RoomTypeDouble]++
			remaining -= 2
		default:
			req[models.RoomTypeSingle]++
			remaining -= 1
		}
	}
	return req, nil
}
