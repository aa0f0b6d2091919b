package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"innkeep/models"
	"innkeep/services/booking"
	"innkeep/utils"
)

// BookingHandler exposes the reservation engine over HTTP.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(c.Request.Context(), input)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Booking created successfully!",
		"bookingId": created.BookingID,
		"booking":   created,
	})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")
	found, err := h.Service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	roomType := c.Query("roomType")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	bookings, err := h.Service.ListBookings(c.Request.Context(), roomType, startDate, endDate)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking handles PUT /api/bookings/:id.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID := c.Param("id")
	var input models.UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	updated, err := h.Service.UpdateBooking(c.Request.Context(), bookingID, input)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Booking updated successfully.",
		"booking": updated,
	})
}

// CancelBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")
	if err := h.Service.CancelBooking(c.Request.Context(), bookingID); err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking successfully canceled."})
}

// respondBookingError maps engine errors onto HTTP statuses.
func (h *BookingHandler) respondBookingError(c *gin.Context, err error) {
	var (
		bookingErr      *booking.BookingError
		capacityErr     *booking.InsufficientCapacityError
		overbookedErr   *booking.OverbookedError
		windowErr       *booking.CancellationWindowError
		inconsistentErr *booking.InconsistentStateError
	)

	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONCodedError(c, http.StatusNotFound, booking.ErrBookingNotFound.Code, "Booking not found.", "")
	case errors.As(err, &capacityErr):
		utils.JSONCodedError(c, http.StatusBadRequest, "insufficientCapacity", "Insufficient room capacity for the party.", capacityErr.Error())
	case errors.As(err, &overbookedErr):
		utils.JSONCodedError(c, http.StatusConflict, "overbooked", "No rooms available for the selected date range", overbookedErr.Error())
	case errors.As(err, &windowErr):
		utils.JSONCodedError(c, http.StatusBadRequest, "cancellationWindowViolation", "Booking cannot be canceled less than 2 days before check-in.", windowErr.Error())
	case errors.As(err, &inconsistentErr):
		h.Logger.Error("inventory inconsistency surfaced to API",
			zap.String("bookingId", inconsistentErr.BookingID),
			zap.Error(inconsistentErr),
		)
		utils.JSONCodedError(c, http.StatusInternalServerError, "inconsistentState", "Booking state requires operator attention.", inconsistentErr.Error())
	case errors.As(err, &bookingErr):
		utils.JSONCodedError(c, http.StatusBadRequest, bookingErr.Code, bookingErr.Message, "")
	default:
		h.Logger.Error("booking operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not process booking request.", err.Error())
	}
}
