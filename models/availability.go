package models

// InventoryCell is the unit-of-contention record for one room type on
// one calendar day. AvailableUnits and BookingIDs are only ever mutated
// through filter-guarded conditional updates; at rest,
// availableUnits plus the units held by the owning bookings equals the
// provisioned capacity for the (roomType, date) pair.
type InventoryCell struct {
	RoomType       RoomType `bson:"roomType" json:"roomType"`
	Date           string   `bson:"date" json:"date"` // "YYYY-MM-DD"
	AvailableUnits int      `bson:"availableUnits" json:"availableUnits"`
	BookingIDs     []string `bson:"bookingIds" json:"bookingIds"`
}
