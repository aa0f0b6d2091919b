package models

// RoomType enumerates the bookable room categories.
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
)

// PerRoomCapacity is the number of guests one room of each type sleeps.
var PerRoomCapacity = map[RoomType]int{
	RoomTypeSingle: 1,
	RoomTypeDouble: 2,
	RoomTypeSuite:  3,
}

// NightlyPrice is the standard rate per room per night.
var NightlyPrice = map[RoomType]float64{
	RoomTypeSingle: 500,
	RoomTypeDouble: 1000,
	RoomTypeSuite:  1500,
}

// IsValidRoomType reports whether s names a known room category.
func IsValidRoomType(s string) bool {
	switch RoomType(s) {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

// Room is a catalog record for one physical room.
type Room struct {
	RoomID        string   `bson:"roomId" json:"roomId"`
	RoomType      RoomType `bson:"roomType" json:"roomType"`
	Capacity      int      `bson:"capacity" json:"capacity"`
	PricePerNight float64  `bson:"pricePerNight" json:"pricePerNight"`
	Status        string   `bson:"status" json:"status"` // e.g. "available", "maintenance"
}
