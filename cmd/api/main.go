package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/eq-test-api/internal/config"
	"github.com/noah-isme/eq-test-api/internal/database"
	"github.com/noah-isme/eq-test-api/internal/handler"
	"github.com/noah-isme/eq-test-api/internal/middleware"
	"github.com/noah-isme/eq-test-api/internal/models"
	"github.com/noah-isme/eq-test-api/internal/repository"
	"github.com/noah-isme/eq-test-api/internal/router"
	"github.com/noah-isme/eq-test-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Question{}, &models.TestResult{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, catalog cache and cross-node events disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, result events stay local")
			natsConn = nil
		} else {
			defer natsConn.Close()
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	questionRepo := repository.NewQuestionRepository(db)
	resultRepo := repository.NewTestResultRepository(db)

	questionService := service.NewQuestionService(questionRepo, redisClient, cfg.CatalogCacheTTL, logger)
	seedService := service.NewSeedService(questionRepo, questionService, logger)
	broadcaster := service.NewResultBroadcaster(redisClient, cfg.EventsChannel, natsConn, logger)
	assessmentService := service.NewAssessmentService(questionService, resultRepo, broadcaster, validate, cfg.ResultsListLimit, logger)

	if cfg.SeedCatalogOnStart {
		seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		inserted, err := seedService.EnsureCatalog(seedCtx)
		cancel()
		if err != nil {
			log.Fatalf("failed to seed question catalog: %v", err)
		}
		if inserted > 0 {
			logger.Info().Int64("questions", inserted).Msg("question catalog seeded")
		}
	}

	eventsCtx, stopEvents := context.WithCancel(context.Background())
	defer stopEvents()
	broadcaster.Start(eventsCtx)

	questionHandler := handler.NewQuestionHandler(questionService, logger)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, broadcaster, logger,
		middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	)

	healthChecks := []handler.DependencyCheck{
		handler.CatalogCheck(questionRepo),
		handler.ResultStoreCheck(resultRepo),
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, handler.RedisCheck(redisClient))
	}
	if natsConn != nil {
		healthChecks = append(healthChecks, handler.NATSCheck(natsConn))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AccessLog})
	router.Register(app, cfg, router.Dependencies{
		QuestionHandler:   questionHandler,
		AssessmentHandler: assessmentHandler,
		HealthChecks:      healthChecks,
		ExposeMetrics:     cfg.MetricsEnabled,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopEvents)
}

func waitForShutdown(app *fiber.App, stopEvents context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopEvents()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
