package booking

import (
	"context"

	"github.com/go-redis/redis/v8"

	availabilityRepo "innkeep/database/repository/availability"
	bookingRepo "innkeep/database/repository/booking"
	"innkeep/models"
)

// BookingService is the reservation engine's public surface. Handlers
// supply already-parsed fields; all inventory correctness lives behind
// these operations.
type BookingService interface {
	CreateBooking(ctx context.Context, input models.CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, roomType, startDate, endDate string) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, input models.UpdateBookingInput) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetRoomAvailability(ctx context.Context, roomType, startDate, endDate string) ([]models.InventoryCell, error)
}

// ReminderScheduler schedules and cancels check-in reminder tasks.
type ReminderScheduler interface {
	ScheduleCheckInReminder(ctx context.Context, booking *models.Booking) error
	CancelCheckInReminder(ctx context.Context, bookingID string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	AvailabilityRepo availabilityRepo.AvailabilityRepository
	BookingRepo      bookingRepo.BookingRepository
	Cache            *redis.Client     // optional booking read cache
	Reminders        ReminderScheduler // optional check-in reminders

	// Engine tuning; zero values fall back to sensible defaults.
	CellRetryAttempts  int
	PersistRetryCount  int
	CancellationCutoff int
}

func (svc *DefaultBookingService) cellRetries() int {
	if svc.CellRetryAttempts > 0 {
		return svc.CellRetryAttempts
	}
	return 3
}

func (svc *DefaultBookingService) persistRetries() int {
	if svc.PersistRetryCount > 0 {
		return svc.PersistRetryCount
	}
	return 3
}

func (svc *DefaultBookingService) cancellationCutoffDays() int {
	if svc.CancellationCutoff > 0 {
		return svc.CancellationCutoff
	}
	return 2
}
