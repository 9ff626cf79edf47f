package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/application"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/database"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/health"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/kafka"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/logger"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/middleware"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/config"
	deliveryDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
	paymentEvents "github.com/Kilat-Pet-Delivery/service-routematch/internal/events"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/otp"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/repository"
)

const serviceName = "service-routematch"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("default_strategy", string(cfg.Matching.DefaultStrategy)),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.UserModel{}, &repository.JourneyModel{}, &repository.DeliveryModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis for delivery OTPs
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer func() { _ = redisClient.Close() }()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		cfg.JWTConfig.AccessTokenTTL,
		cfg.JWTConfig.RefreshTokenTTL,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	journeyRepo := repository.NewGormJourneyRepository(db)
	deliveryRepo := repository.NewGormDeliveryRepository(db)

	// Matching defaults, reloaded when the config file changes
	settings := application.NewMatchingSettings(matchingDefaults(cfg.Matching))
	cfg.WatchMatching(log, func(m config.MatchingConfig) {
		settings.Store(matchingDefaults(m))
	})

	// Initialize application services
	authService := application.NewAuthService(userRepo, jwtManager, log)
	journeyService := application.NewJourneyService(journeyRepo, kafkaProducer, log)
	deliveryService := application.NewDeliveryService(
		deliveryRepo,
		journeyRepo,
		deliveryDomain.NewFlatSizePricingStrategy(),
		otp.NewRedisStore(redisClient),
		cfg.OTPTTL,
		settings,
		kafkaProducer,
		log,
	)
	matchService := application.NewMatchService(settings)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "routematch"
	paymentConsumer := paymentEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		deliveryService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName).
		WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewAuthHandler(authService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewJourneyHandler(journeyService, deliveryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewDeliveryHandler(deliveryService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewMatchHandler(matchService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminDeliveryHandler(deliveryService).RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

func matchingDefaults(m config.MatchingConfig) application.MatchingDefaults {
	return application.MatchingDefaults{
		Strategy:          m.DefaultStrategy,
		StrictRadiusKm:    m.StrictRadiusKm,
		FlexibleRadiusKm:  m.FlexibleRadiusKm,
		CandidatePageSize: m.CandidatePageSize,
	}
}
