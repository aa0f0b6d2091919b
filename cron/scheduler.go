package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"innkeep/models"
)

// ReminderScheduler enqueues check-in reminder tasks on the asynq queue.
type ReminderScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewReminderScheduler constructs a scheduler backed by the reminder queue.
func NewReminderScheduler() *ReminderScheduler {
	opts := redisOpts()
	return &ReminderScheduler{
		client:    asynq.NewClient(opts),
		inspector: asynq.NewInspector(opts),
	}
}

// ScheduleCheckInReminder enqueues a reminder to fire a day before
// check-in. Stays starting sooner than the lead time get no reminder.
func (s *ReminderScheduler) ScheduleCheckInReminder(ctx context.Context, booking *models.Booking) error {
	checkIn, err := time.Parse("2006-01-02", booking.CheckInDate)
	if err != nil {
		return fmt.Errorf("malformed checkInDate on booking %s: %w", booking.BookingID, err)
	}
	fireAt := checkIn.Add(-reminderLeadTime)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(models.ReminderPayload{
		BookingID:   booking.BookingID,
		GuestName:   booking.GuestName,
		Email:       booking.Email,
		CheckInDate: booking.CheckInDate,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeCheckinReminder, payload)
	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(fireAt),
		asynq.TaskID(reminderTaskID(booking.BookingID)),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// Rescheduling an updated booking: drop the stale task first.
		if delErr := s.inspector.DeleteTask("default", reminderTaskID(booking.BookingID)); delErr != nil {
			return delErr
		}
		_, err = s.client.EnqueueContext(ctx, task,
			asynq.ProcessAt(fireAt),
			asynq.TaskID(reminderTaskID(booking.BookingID)),
		)
	}
	return err
}

// CancelCheckInReminder removes a pending reminder, if one exists.
func (s *ReminderScheduler) CancelCheckInReminder(ctx context.Context, bookingID string) error {
	err := s.inspector.DeleteTask("default", reminderTaskID(bookingID))
	if errors.Is(err, asynq.ErrTaskNotFound) {
		return nil
	}
	return err
}

func reminderTaskID(bookingID string) string {
	return "checkin:" + bookingID
}
