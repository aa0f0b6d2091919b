package models

import "time"

// RoomRequirement maps a room type to the number of rooms a booking
// holds on every night of its stay. Zero-count entries carry no meaning
// and are skipped by consumers.
type RoomRequirement map[RoomType]int

// TotalRooms returns the number of rooms across all types.
func (r RoomRequirement) TotalRooms() int {
	total := 0
	for _, count := range r {
		total += count
	}
	return total
}

// Booking represents a confirmed reservation record. RoomRequirement is
// persisted so the exact committed allocation can be replayed when the
// booking is released.
type Booking struct {
	BookingID       string          `bson:"bookingId" json:"bookingId"`
	GuestName       string          `bson:"guestName" json:"guestName"`
	Email           string          `bson:"email" json:"email"`
	GuestCount      int             `bson:"guestCount" json:"guestCount"`
	RoomRequirement RoomRequirement `bson:"roomRequirement" json:"roomRequirement"`
	CheckInDate     string          `bson:"checkInDate" json:"checkInDate"`   // inclusive, "YYYY-MM-DD"
	CheckOutDate    string          `bson:"checkOutDate" json:"checkOutDate"` // exclusive
	Nights          int             `bson:"nights" json:"nights"`
	TotalPrice      float64         `bson:"totalPrice" json:"totalPrice"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
