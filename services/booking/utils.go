package booking

import (
	"time"

	"innkeep/models"
)

const dateLayout = "2006-01-02"

// datesBetween enumerates every calendar date in [checkIn, checkOut),
// half-open: the checkout day itself is never allocated.
func datesBetween(checkIn, checkOut time.Time) []string {
	var dates []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// nightsBetween counts the nights of a half-open stay.
func nightsBetween(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// totalPrice prices a stay at the standard nightly rate per room.
func totalPrice(req models.RoomRequirement, nights int) float64 {
	var total float64
	for roomType, count := range req {
		if count <= 0 {
			continue
		}
		total += models.NightlyPrice[roomType] * float64(count) * float64(nights)
	}
	return total
}

// expandCells derives the (roomType, date, count) triples a requirement
// touches over a stay. Zero-count entries are skipped.
func expandCells(req models.RoomRequirement, dates []string) []cellOp {
	var ops []cellOp
	for roomType, count := range req {
		if count <= 0 {
			continue
		}
		for _, date := range dates {
			ops = append(ops, cellOp{RoomType: roomType, Date: date, Count: count})
		}
	}
	return ops
}
