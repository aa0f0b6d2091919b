package models

// ReminderPayload is the task body for a scheduled check-in reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	GuestName   string `json:"guestName"`
	Email       string `json:"email"`
	CheckInDate string `json:"checkInDate"`
}
