package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fast-lane/service-core/internal/application"
	"github.com/fast-lane/service-core/internal/auth"
	"github.com/fast-lane/service-core/internal/config"
	"github.com/fast-lane/service-core/internal/database"
	"github.com/fast-lane/service-core/internal/domain/delivery"
	"github.com/fast-lane/service-core/internal/events"
	"github.com/fast-lane/service-core/internal/handler"
	"github.com/fast-lane/service-core/internal/health"
	"github.com/fast-lane/service-core/internal/kafka"
	"github.com/fast-lane/service-core/internal/logger"
	"github.com/fast-lane/service-core/internal/middleware"
	"github.com/fast-lane/service-core/internal/repository"
)

const (
	serviceName     = "service-core"
	accessTokenTTL  = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.PropertyModel{},
			&repository.BookingModel{},
			&repository.DeliveryOrderModel{},
			&repository.ReviewModel{},
		); err != nil {
			log.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Only reachable in development; config.Load rejects this otherwise.
		jwtSecret = "dev-secret"
		log.Warn("using development JWT secret")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, accessTokenTTL)

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	propertyRepo := repository.NewGormPropertyRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	deliveryRepo := repository.NewGormDeliveryRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)

	fareCalculator := delivery.NewStandardFareCalculator(cfg.Fare.BaseCents, cfg.Fare.PerKmCents)

	propertyService := application.NewPropertyService(propertyRepo, log)
	bookingService := application.NewBookingService(bookingRepo, propertyRepo, producer, log)
	deliveryService := application.NewDeliveryService(deliveryRepo, fareCalculator, producer, log)
	reviewService := application.NewReviewService(reviewRepo, propertyRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	paymentConsumer := events.NewPaymentEventConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.GroupPrefix+serviceName,
		bookingService,
		log,
	)
	go func() {
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment consumer stopped", zap.Error(err))
		}
	}()
	defer func() { _ = paymentConsumer.Close() }()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(log),
		middleware.LoggerMiddleware(log),
		middleware.CORSMiddleware(),
		middleware.SecurityHeadersMiddleware(),
	)

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := router.Group("/api/v1")
	handler.NewPropertyHandler(propertyService).RegisterRoutes(api, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	handler.NewDeliveryHandler(deliveryService).RegisterRoutes(api, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api, jwtManager)
	handler.NewAdminHandler(propertyService, bookingService, deliveryService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
