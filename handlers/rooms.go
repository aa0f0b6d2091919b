package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"innkeep/services/booking"
	"innkeep/services/inventory"
	"innkeep/utils"
)

// RoomHandler exposes availability reads and inventory provisioning.
type RoomHandler struct {
	Booking   booking.BookingService
	Inventory inventory.InventoryService
	Logger    *zap.Logger
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(bookingSvc booking.BookingService, inventorySvc inventory.InventoryService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{Booking: bookingSvc, Inventory: inventorySvc, Logger: logger}
}

// GetAvailability handles GET /api/rooms/availability.
func (h *RoomHandler) GetAvailability(c *gin.Context) {
	roomType := c.Query("roomType")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	if roomType == "" || startDate == "" || endDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameters: roomType, startDate, endDate", "")
		return
	}

	cells, err := h.Booking.GetRoomAvailability(c.Request.Context(), roomType, startDate, endDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not fetch room availability.", err.Error())
		return
	}
	c.JSON(http.StatusOK, cells)
}

// ProvisionInventory handles POST /api/rooms/provision. It seeds the
// room catalog and opens availability for the requested horizon.
func (h *RoomHandler) ProvisionInventory(c *gin.Context) {
	var input struct {
		From string `json:"from" binding:"required"`
		Days int    `json:"days" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	from, err := time.Parse("2006-01-02", input.From)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD", "")
		return
	}

	ctx := c.Request.Context()
	if err := h.Inventory.SeedRooms(ctx); err != nil {
		h.Logger.Error("room seeding failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not seed room catalog.", err.Error())
		return
	}
	if err := h.Inventory.ProvisionAvailability(ctx, from, input.Days); err != nil {
		h.Logger.Error("availability provisioning failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Could not provision availability.", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory provisioned.", "days": input.Days})
}
