// File: gymflow/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gymflow/config"
	"gymflow/cron"
	"gymflow/database"
	bookingRepo "gymflow/database/repository/booking"
	scheduleRepo "gymflow/database/repository/schedule"
	"gymflow/handlers"
	"gymflow/middleware"
	"gymflow/routes"
	"gymflow/services/conflict"
	"gymflow/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitLockClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	if err := schedRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure schedule indexes: %v", err)
	}
	if err := bookRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// conflict engine wiring. Cached provider serves read-only checks; the
	// fresh provider is consulted under the owner write lock.
	engine := conflict.NewEngine(logger)
	cachedProvider := &conflict.RepoCommitmentProvider{
		Schedules: schedRepo,
		Bookings:  bookRepo,
		Cache:     utils.GetCacheClient(),
		CacheTTL:  time.Duration(config.AppConfig.CommitmentTTLSec) * time.Second,
		Logger:    logger,
	}
	freshProvider := &conflict.RepoCommitmentProvider{
		Schedules: schedRepo,
		Bookings:  bookRepo,
		Logger:    logger,
	}
	locker := &conflict.RedisOwnerLocker{
		Client: utils.GetLockClient(),
		TTL:    10 * time.Second,
	}
	conflictService := &conflict.DefaultConflictService{
		Engine:    engine,
		Provider:  cachedProvider,
		Fresh:     freshProvider,
		Snapshots: cachedProvider,
		Schedules: schedRepo,
		Bookings:  bookRepo,
		Locker:    locker,
		Logger:    logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Conflict: handlers.NewConflictHandler(conflictService, logger),
		Schedule: handlers.NewScheduleHandler(conflictService, logger),
		Booking:  handlers.NewBookingHandler(conflictService, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Background expiry sweep for past-dated bookings.
	cron.InitExpiryWorker(bookRepo)

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
	if err := database.CloseDB(ctx); err != nil {
		logger.Sugar().Warnf("main: error closing MongoDB connection: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
