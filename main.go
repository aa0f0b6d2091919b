// File: innkeep/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"innkeep/config"
	"innkeep/cron"
	"innkeep/database"
	availabilityRepo "innkeep/database/repository/availability"
	bookingRepo "innkeep/database/repository/booking"
	roomRepo "innkeep/database/repository/room"
	"innkeep/handlers"
	"innkeep/middleware"
	"innkeep/routes"
	"innkeep/services/booking"
	"innkeep/services/inventory"
	"innkeep/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	rmRepo := roomRepo.NewMongoRoomRepo()

	if err := availRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}
	if err := bookRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// background reminder worker.
	cron.InitReminderWorker(bookRepo)
	reminderScheduler := cron.NewReminderScheduler()

	// services.
	bookingService := &booking.DefaultBookingService{
		AvailabilityRepo:   availRepo,
		BookingRepo:        bookRepo,
		Cache:              utils.GetCacheClient(),
		Reminders:          reminderScheduler,
		CellRetryAttempts:  config.AppConfig.CellRetryAttempts,
		PersistRetryCount:  config.AppConfig.PersistRetryCount,
		CancellationCutoff: config.AppConfig.CancellationCutoff,
	}
	inventoryService := &inventory.DefaultInventoryService{
		RoomRepo:         rmRepo,
		AvailabilityRepo: availRepo,
	}

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	roomHandler := handlers.NewRoomHandler(bookingService, inventoryService, logger)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler, roomHandler)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
