package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/config"
	"github.com/swiftbus/bus-booking-backend/internal/database"
	"github.com/swiftbus/bus-booking-backend/internal/handlers"
	"github.com/swiftbus/bus-booking-backend/internal/middleware"
	"github.com/swiftbus/bus-booking-backend/internal/services"
	"github.com/swiftbus/bus-booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SwiftBus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories need the underlying *sqlx.DB for transactions
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Initialize repositories
	seatRepo := database.NewSeatRepository(pgDB.DB, cfg.Booking.LockTimeout)
	walletRepo := database.NewWalletRepository(pgDB.DB, cfg.Booking.LockTimeout)
	scheduleRepo := database.NewScheduleRepository(pgDB.DB, seatRepo)
	bookingRepo := database.NewBookingRepository(pgDB.DB, seatRepo, walletRepo,
		cfg.Booking.LockTimeout, cfg.Booking.CodeAttempts)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	bookingService := services.NewBookingService(scheduleRepo, seatRepo, walletRepo,
		bookingRepo, cfg.Booking.MaxConflictRetries, logger)
	walletService := services.NewWalletService(walletRepo, logger)
	scheduleService := services.NewScheduleService(scheduleRepo, services.NewSeatGenerator(), logger)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	walletHandler := handlers.NewWalletHandler(walletService, logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, bookingService, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(middleware.RequestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", healthCheckHandler(db))

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Public schedule browsing
		v1.GET("/schedules", scheduleHandler.Search)
		v1.GET("/schedules/:id", scheduleHandler.GetSchedule)
		v1.GET("/schedules/:id/seats", scheduleHandler.GetSeats)

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListBookings)
			bookings.GET("/code/:code", bookingHandler.GetBookingByCode)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthMiddleware(jwtService))
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.POST("/topup", walletHandler.TopUp)
			wallet.GET("/transactions", walletHandler.ListTransactions)
		}

		// Admin routes (protected, admin role required)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService), middleware.RequireAdmin())
		{
			admin.POST("/schedules", scheduleHandler.CreateSchedule)
			admin.PATCH("/schedules/:id/status", scheduleHandler.UpdateScheduleStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
