package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"innkeep/handlers"
	"innkeep/utils"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.POST("", bh.CreateBooking)
		api.GET("", bh.ListBookings)
		api.GET("/:id", bh.GetBooking)
		api.PUT("/:id", bh.UpdateBooking)
		api.DELETE("/:id", bh.CancelBooking)
	}
}

// RegisterRoomRoutes registers availability and provisioning endpoints.
func RegisterRoomRoutes(r *gin.Engine, rh *handlers.RoomHandler) {
	api := r.Group("/api/rooms")
	{
		api.GET("/availability", rh.GetAvailability)
		api.POST("/provision", rh.ProvisionInventory)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, rh *handlers.RoomHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, bh)
	RegisterRoomRoutes(r, rh)
	RegisterHealthRoute(r)
}
