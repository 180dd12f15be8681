package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	carDelivery "github.com/vroomprestige/vroom-api/internal/domain/cars/delivery"
	carRepository "github.com/vroomprestige/vroom-api/internal/domain/cars/repository"
	carUsecase "github.com/vroomprestige/vroom-api/internal/domain/cars/usecase"
	reservationDelivery "github.com/vroomprestige/vroom-api/internal/domain/reservations/delivery"
	reservationRepository "github.com/vroomprestige/vroom-api/internal/domain/reservations/repository"
	reservationUsecase "github.com/vroomprestige/vroom-api/internal/domain/reservations/usecase"
	"github.com/vroomprestige/vroom-api/internal/domain/users/delivery"
	"github.com/vroomprestige/vroom-api/internal/domain/users/repository"
	"github.com/vroomprestige/vroom-api/internal/domain/users/usecase"
	"github.com/vroomprestige/vroom-api/internal/platform/config"
	"github.com/vroomprestige/vroom-api/internal/platform/database"
	"github.com/vroomprestige/vroom-api/internal/platform/imageproxy"
	"github.com/vroomprestige/vroom-api/internal/platform/session"
	"github.com/vroomprestige/vroom-api/pkg/middleware"
	"github.com/vroomprestige/vroom-api/pkg/token"
	customValidator "github.com/vroomprestige/vroom-api/pkg/validator"
)

func main() {
	// Setup zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	zlog.Info().Msg("Starting Vroom Prestige API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.InitMySQL(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Run migrations
	if err := database.Migrate(db, cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	zlog.Info().Msg("Database migrated successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Redis client
	redisAddr := cfg.Redis.Host + ":" + cfg.Redis.Port
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	zlog.Info().Msg("Redis initialized successfully")

	// Initialize session store and background sweeper
	sessionStore := session.NewStore(db)
	sessionStore.StartSweeper(ctx)

	// Initialize image proxy
	proxyService := imageproxy.NewService(redisClient)

	// Initialize Echo
	e := echo.New()
	e.Use(middleware.RequestID())
	e.HideBanner = false

	// Register validator
	e.Validator = customValidator.New()

	// Initialize service token verifier
	tokenService := token.NewService(cfg.ServiceToken.SecretKey)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	carRepo := carRepository.NewCarRepository(db)
	reservationRepo := reservationRepository.NewReservationRepository(db)

	// Initialize use cases
	userUsecaseInstance := usecase.NewUserUsecase(userRepo)
	carUsecaseInstance := carUsecase.NewCarUsecase(carRepo, reservationRepo)
	reservationUsecaseInstance := reservationUsecase.NewReservationUsecase(reservationRepo, carRepo, userRepo)

	// Initialize handlers
	authHandler := delivery.NewAuthHandler(ctx, userUsecaseInstance, sessionStore)
	adminUserHandler := delivery.NewAdminUserHandler(ctx, userUsecaseInstance)
	carHandler := carDelivery.NewCarHandler(ctx, carUsecaseInstance)
	lookupHandler := carDelivery.NewLookupHandler(ctx, carUsecaseInstance)
	reservationHandler := reservationDelivery.NewReservationHandler(ctx, reservationUsecaseInstance)

	// Setup routes
	setupRoutes(e, authHandler, adminUserHandler, carHandler, lookupHandler, reservationHandler, proxyService, sessionStore, tokenService)

	// Start server in goroutine
	go func() {
		port := cfg.Server.Port
		if port == "" {
			port = "8080"
		}

		zlog.Info().Str("port", port).Msg("Starting HTTP server")
		if err := e.Start(":" + port); err != nil {
			zlog.Info().Err(err).Msg("Server stopped")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("Shutting down server...")
	cancel()

	// Gracefully shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info().Msg("Server exited successfully")
}
