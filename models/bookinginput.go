package models

// CreateBookingInput carries the parsed fields of a booking request.
// RoomType and Rooms are optional; when both are present the requested
// configuration is used verbatim, otherwise rooms are planned from the
// guest count.
type CreateBookingInput struct {
	GuestName    string `json:"guestName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	GuestCount   int    `json:"guestCount" binding:"required,min=1"`
	RoomType     string `json:"roomType"`
	Rooms        int    `json:"rooms"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// UpdateBookingInput carries the replacement configuration for an
// existing booking.
type UpdateBookingInput struct {
	GuestName    string `json:"guestName" binding:"required"`
	Email        string `json:"email"`
	GuestCount   int    `json:"guestCount" binding:"required,min=1"`
	RoomType     string `json:"roomType"`
	Rooms        int    `json:"rooms"`
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}
