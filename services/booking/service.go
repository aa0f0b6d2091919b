package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"innkeep/models"
	"innkeep/utils"
)

const bookingCacheTTL = 10 * time.Minute

// validateStay parses and checks the date range. Zero-night stays
// (checkIn == checkOut) allocate no cells and are rejected outright
// rather than silently booking nothing.
func validateStay(checkInDate, checkOutDate string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(dateLayout, checkInDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("invalid checkInDate, expected YYYY-MM-DD")
	}
	checkOut, err := time.Parse(dateLayout, checkOutDate)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("invalid checkOutDate, expected YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, NewValidationError("checkOutDate must be after checkInDate")
	}
	return checkIn, checkOut, nil
}

func validateGuestFields(guestName, roomType string, rooms int) error {
	if guestName == "" {
		return NewValidationError("guestName must be a non-empty string")
	}
	if roomType != "" && !models.IsValidRoomType(roomType) {
		return NewValidationError(fmt.Sprintf("unknown roomType %q", roomType))
	}
	if roomType != "" && rooms < 0 {
		return NewValidationError("rooms must be a positive number")
	}
	return nil
}

// CreateBooking runs the creation path: plan, advisory check, commit,
// persist. Inventory is only touched once planning and validation have
// passed, and a commit that cannot be recorded durably is rolled back
// so no allocation leaks.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error) {
	if err := validateGuestFields(input.GuestName, input.RoomType, input.Rooms); err != nil {
		return nil, err
	}
	if input.Email == "" {
		return nil, NewValidationError("email must be a non-empty string")
	}
	checkIn, checkOut, err := validateStay(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}

	// Step 1: Plan the room requirement.
	req, err := PlanRoomRequirement(input.GuestCount, models.RoomType(input.RoomType), input.Rooms)
	if err != nil {
		return nil, err
	}

	dates := datesBetween(checkIn, checkOut)
	ops := expandCells(req, dates)

	// Step 2: Advisory availability check.
	available, err := svc.checkAvailability(ctx, ops)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if !available {
		return nil, ErrNoAvailability
	}

	// Step 3: Commit the reservation; the conditional writes are the
	// real authority, the check above only reduced contention.
	bookingID := uuid.New().String()
	if err := svc.commitReservation(ctx, bookingID, ops); err != nil {
		return nil, err
	}
	log.Printf("[CreateBooking] Reservation committed. Booking ID: %s", bookingID)

	nights := nightsBetween(checkIn, checkOut)
	booking := &models.Booking{
		BookingID:       bookingID,
		GuestName:       input.GuestName,
		Email:           input.Email,
		GuestCount:      input.GuestCount,
		RoomRequirement: req,
		CheckInDate:     input.CheckInDate,
		CheckOutDate:    input.CheckOutDate,
		Nights:          nights,
		TotalPrice:      totalPrice(req, nights),
		CreatedAt:       time.Now(),
	}

	// Step 4: Persist the booking record. A committed-but-unrecorded
	// allocation leaks inventory permanently, so the persist is retried
	// and, if it still fails, the committed cells are released again.
	if err := svc.persistWithRetry(ctx, func(c context.Context) error {
		return svc.BookingRepo.Create(c, booking)
	}); err != nil {
		utils.GetLogger().Error("booking persist failed after commit, releasing allocation",
			zap.String("bookingId", bookingID),
			zap.Error(err),
		)
		if relErr := svc.releaseReservation(ctx, bookingID, ops); relErr != nil {
			return nil, &InconsistentStateError{BookingID: bookingID, Cause: relErr}
		}
		return nil, fmt.Errorf("failed to save booking record: %w", err)
	}

	// Step 5: Schedule the check-in reminder (best effort).
	if svc.Reminders != nil {
		if err := svc.Reminders.ScheduleCheckInReminder(ctx, booking); err != nil {
			log.Printf("[CreateBooking] Failed to schedule reminder for %s: %v", bookingID, err)
		}
	}

	return booking, nil
}

// GetBooking reads a booking, serving repeat reads from the cache.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	if svc.Cache != nil {
		if data, err := svc.Cache.Get(ctx, bookingCacheKey(bookingID)).Result(); err == nil {
			var cached models.Booking
			if err := json.Unmarshal([]byte(data), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	booking, err := svc.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}

	if svc.Cache != nil {
		if data, err := json.Marshal(booking); err == nil {
			_ = svc.Cache.Set(ctx, bookingCacheKey(bookingID), data, bookingCacheTTL).Err()
		}
	}
	return booking, nil
}

// ListBookings returns bookings checking in within [startDate, endDate],
// optionally narrowed to one room type.
func (svc *DefaultBookingService) ListBookings(ctx context.Context, roomType, startDate, endDate string) ([]models.Booking, error) {
	if startDate == "" || endDate == "" {
		return nil, NewValidationError("startDate and endDate are required")
	}
	if roomType != "" && !models.IsValidRoomType(roomType) {
		return nil, NewValidationError(fmt.Sprintf("unknown roomType %q", roomType))
	}
	return svc.BookingRepo.ListByDateRange(ctx, roomType, startDate, endDate)
}

// CancelBooking releases a booking's inventory and deletes its record.
// Cancellations inside the cutoff window are rejected before any store
// mutation.
func (svc *DefaultBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := svc.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	checkIn, err := time.Parse(dateLayout, booking.CheckInDate)
	if err != nil {
		return fmt.Errorf("stored booking %s has malformed checkInDate: %w", bookingID, err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	daysUntil := int(checkIn.Sub(today).Hours() / 24)
	if daysUntil < svc.cancellationCutoffDays() {
		return &CancellationWindowError{DaysUntilCheckIn: daysUntil, CutoffDays: svc.cancellationCutoffDays()}
	}

	checkOut, err := time.Parse(dateLayout, booking.CheckOutDate)
	if err != nil {
		return fmt.Errorf("stored booking %s has malformed checkOutDate: %w", bookingID, err)
	}

	// Release first; the record is the source of truth for what was
	// committed and must outlive any cell that failed to release.
	ops := expandCells(booking.RoomRequirement, datesBetween(checkIn, checkOut))
	if err := svc.releaseReservation(ctx, bookingID, ops); err != nil {
		return err
	}

	if err := svc.BookingRepo.Delete(ctx, bookingID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to delete booking record %s: %w", bookingID, err)
	}
	svc.invalidateCache(ctx, bookingID)

	if svc.Reminders != nil {
		if err := svc.Reminders.CancelCheckInReminder(ctx, bookingID); err != nil {
			log.Printf("[CancelBooking] Failed to cancel reminder for %s: %v", bookingID, err)
		}
	}
	log.Printf("[CancelBooking] Booking %s canceled.", bookingID)
	return nil
}

// UpdateBooking replaces a booking's configuration: the old allocation
// is released, the new one committed, and the record overwritten. If
// the new commit fails after the old allocation was already released,
// the old configuration is re-committed so the guest keeps their rooms.
func (svc *DefaultBookingService) UpdateBooking(ctx context.Context, bookingID string, input models.UpdateBookingInput) (*models.Booking, error) {
	old, err := svc.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := validateGuestFields(input.GuestName, input.RoomType, input.Rooms); err != nil {
		return nil, err
	}
	checkIn, checkOut, err := validateStay(input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}

	req, err := PlanRoomRequirement(input.GuestCount, models.RoomType(input.RoomType), input.Rooms)
	if err != nil {
		return nil, err
	}
	newOps := expandCells(req, datesBetween(checkIn, checkOut))

	available, err := svc.checkAvailability(ctx, newOps)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if !available {
		return nil, ErrNoAvailability
	}

	oldCheckIn, errIn := time.Parse(dateLayout, old.CheckInDate)
	oldCheckOut, errOut := time.Parse(dateLayout, old.CheckOutDate)
	if errIn != nil || errOut != nil {
		return nil, fmt.Errorf("stored booking %s has malformed dates", bookingID)
	}
	oldOps := expandCells(old.RoomRequirement, datesBetween(oldCheckIn, oldCheckOut))

	// Step 1: Remove the old allocation.
	if err := svc.releaseReservation(ctx, bookingID, oldOps); err != nil {
		return nil, err
	}

	// Step 2: Commit the new configuration. On failure, re-commit the
	// old one; losing both allocations is worse than losing the update.
	if err := svc.commitReservation(ctx, bookingID, newOps); err != nil {
		if recommitErr := svc.commitReservation(ctx, bookingID, oldOps); recommitErr != nil {
			inconsistency := &InconsistentStateError{BookingID: bookingID, Cause: recommitErr}
			utils.GetLogger().Error("failed to restore old allocation after update commit failure",
				zap.String("bookingId", bookingID),
				zap.Error(recommitErr),
			)
			return nil, inconsistency
		}
		return nil, err
	}

	nights := nightsBetween(checkIn, checkOut)
	email := input.Email
	if email == "" {
		email = old.Email
	}
	updated := &models.Booking{
		BookingID:       bookingID,
		GuestName:       input.GuestName,
		Email:           email,
		GuestCount:      input.GuestCount,
		RoomRequirement: req,
		CheckInDate:     input.CheckInDate,
		CheckOutDate:    input.CheckOutDate,
		Nights:          nights,
		TotalPrice:      totalPrice(req, nights),
		CreatedAt:       old.CreatedAt,
		UpdatedAt:       time.Now(),
	}

	// Step 3: Overwrite the record. If it cannot be recorded, fall back
	// to the old configuration so record and inventory stay aligned.
	if err := svc.persistWithRetry(ctx, func(c context.Context) error {
		return svc.BookingRepo.Update(c, updated)
	}); err != nil {
		utils.GetLogger().Error("booking update persist failed, restoring old allocation",
			zap.String("bookingId", bookingID),
			zap.Error(err),
		)
		if relErr := svc.releaseReservation(ctx, bookingID, newOps); relErr != nil {
			return nil, &InconsistentStateError{BookingID: bookingID, Cause: relErr}
		}
		if recommitErr := svc.commitReservation(ctx, bookingID, oldOps); recommitErr != nil {
			return nil, &InconsistentStateError{BookingID: bookingID, Cause: recommitErr}
		}
		return nil, fmt.Errorf("failed to save updated booking record: %w", err)
	}
	svc.invalidateCache(ctx, bookingID)

	log.Printf("[UpdateBooking] Booking %s updated.", bookingID)
	return updated, nil
}

// GetRoomAvailability returns per-date available units for a room type
// over an inclusive date range. Reads go straight to the store; cached
// availability would go stale under concurrent writers.
func (svc *DefaultBookingService) GetRoomAvailability(ctx context.Context, roomType, startDate, endDate string) ([]models.InventoryCell, error) {
	if roomType == "" || startDate == "" || endDate == "" {
		return nil, NewValidationError("roomType, startDate and endDate are required")
	}
	if !models.IsValidRoomType(roomType) {
		return nil, NewValidationError(fmt.Sprintf("unknown roomType %q", roomType))
	}
	return svc.AvailabilityRepo.GetRange(ctx, models.RoomType(roomType), startDate, endDate)
}

func (svc *DefaultBookingService) persistWithRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= svc.persistRetries(); attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt < svc.persistRetries() {
			select {
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

func (svc *DefaultBookingService) invalidateCache(ctx context.Context, bookingID string) {
	if svc.Cache != nil {
		_ = svc.Cache.Del(ctx, bookingCacheKey(bookingID)).Err()
	}
}

func bookingCacheKey(bookingID string) string {
	return "booking:" + bookingID
}
