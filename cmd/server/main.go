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
	"go.uber.org/zap"

	"github.com/baq-transit/service-routing/internal/application"
	"github.com/baq-transit/service-routing/internal/config"
	"github.com/baq-transit/service-routing/internal/domain/journey"
	"github.com/baq-transit/service-routing/internal/events"
	"github.com/baq-transit/service-routing/internal/handler"
	"github.com/baq-transit/service-routing/internal/metrics"
	"github.com/baq-transit/service-routing/internal/platform/database"
	"github.com/baq-transit/service-routing/internal/platform/health"
	"github.com/baq-transit/service-routing/internal/platform/logger"
	"github.com/baq-transit/service-routing/internal/platform/middleware"
	"github.com/baq-transit/service-routing/internal/repository"
)

const serviceName = "service-routing"

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
		zap.Float64("search_radius_m", cfg.Routing.SearchRadiusMeters),
		zap.Int("trunk_alternatives", cfg.Routing.TrunkAlternatives),
		zap.String("events_driver", cfg.Events.Driver),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// The schema depends on PostGIS generated columns, so it is always
	// migrated from SQL files.
	if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), cfg.MigrationsPath, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	collector := metrics.NewCollector()

	// Initialize repositories
	networkRepo := repository.NewGormNetworkRepository(db)
	lookup := repository.NewCachedLookup(networkRepo, cfg.Cache.Size, cfg.Cache.TTL, collector)

	// Initialize event publisher
	publisher, err := newPublisher(cfg.Events, collector, log)
	if err != nil {
		log.Fatal("failed to initialize event publisher", zap.Error(err))
	}
	defer func() { _ = publisher.Close() }()

	// Initialize application service
	assembler := application.NewCandidateAssembler(networkRepo, cfg.Routing.SearchRadiusMeters, collector, log)
	enumerator := journey.NewEnumerator(lookup, cfg.Routing.TrunkAlternatives, log.Named("enumerator"))
	planningService := application.NewPlanningService(assembler, enumerator, publisher, collector, log)

	// Initialize and start network event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Events.Driver == config.DriverKafka {
		networkConsumer := events.NewNetworkEventConsumer(
			cfg.Events.KafkaBrokers,
			cfg.Events.ConsumerGroup("network"),
			lookup,
			log,
		)
		defer func() { _ = networkConsumer.Close() }()

		go func() {
			log.Info("starting network event consumer")
			if err := networkConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("network event consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	pathHandler := handler.NewPathHandler(planningService)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	// Register routes
	pathHandler.RegisterRoutes(&router.RouterGroup)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}

func newPublisher(cfg config.EventsConfig, m events.PublisherMetrics, log *zap.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case config.DriverKafka:
		return events.NewKafkaPublisher(cfg.KafkaBrokers, m, log), nil
	case config.DriverNATS:
		p, err := events.NewNATSPublisher(cfg.NATSURL, m, log)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		log.Warn("event publishing disabled")
		return events.NopPublisher{}, nil
	}
}
