package booking

import (
	"fmt"

	"innkeep/models"
)

// BookingError is a coded logical error surfaced to the caller with no
// retry.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Code: "validationError", Message: msg}
}

// ErrBookingNotFound is returned when the release/update target is missing.
var ErrBookingNotFound = &BookingError{Code: "bookingNotFound", Message: "booking not found"}

// ErrNoAvailability is the advisory checker's rejection: at least one
// date in the requested range lacks enough free units.
var ErrNoAvailability = &BookingError{Code: "noAvailability", Message: "no rooms available for the selected date range"}

// CellRef names one (roomType, date) availability cell.
type CellRef struct {
	RoomType models.RoomType
	Date     string
}

func (c CellRef) String() string {
	return fmt.Sprintf("%s/%s", c.RoomType, c.Date)
}

// InsufficientCapacityError reports an explicit room configuration that
// cannot seat the guest count.
type InsufficientCapacityError struct {
	RoomType   models.RoomType
	Rooms      int
	GuestCount int
	Seats      int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficientCapacity: %d %s room(s) seat %d guests, %d requested",
		e.Rooms, e.RoomType, e.Seats, e.GuestCount)
}

// OverbookedError reports a lost race on a cell during commit. All
// decrements already applied by the losing commit have been compensated
// before this error surfaces.
type OverbookedError struct {
	Cell CellRef
}

func (e *OverbookedError) Error() string {
	return fmt.Sprintf("overbooked: no units left for %s", e.Cell)
}

// CancellationWindowError reports a cancellation attempted inside the
// business cutoff.
type CancellationWindowError struct {
	DaysUntilCheckIn int
	CutoffDays       int
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("cancellationWindowViolation: %d day(s) until check-in, cutoff is %d", e.DaysUntilCheckIn, e.CutoffDays)
}

// ReleaseError reports cells that exhausted their retries during a
// best-effort release. Cells not listed were released (or were already
// released).
type ReleaseError struct {
	BookingID string
	Failed    []CellRef
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("release incomplete for booking %s: %d cell(s) failed: %v", e.BookingID, len(e.Failed), e.Failed)
}

// InconsistentStateError is fatal: compensation itself failed and the
// store now holds inventory drift that needs manual reconciliation. It
// is never swallowed; callers log it with full context and surface it.
type InconsistentStateError struct {
	BookingID string
	Cells     []CellRef
	Cause     error
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("inconsistent inventory state for booking %s on cells %v: %v", e.BookingID, e.Cells, e.Cause)
}

func (e *InconsistentStateError) Unwrap() error { return e.Cause }
