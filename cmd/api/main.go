package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/field-insights/internal/api/http"
	"github.com/spec-kit/field-insights/internal/api/http/handlers"
	"github.com/spec-kit/field-insights/internal/auth"
	"github.com/spec-kit/field-insights/internal/config"
	"github.com/spec-kit/field-insights/internal/events"
	"github.com/spec-kit/field-insights/internal/hierarchy"
	"github.com/spec-kit/field-insights/internal/insights"
	"github.com/spec-kit/field-insights/internal/observability"
	"github.com/spec-kit/field-insights/internal/persistence"
	"github.com/spec-kit/field-insights/internal/repository"
	"github.com/spec-kit/field-insights/internal/scope"
	"github.com/spec-kit/field-insights/internal/service"
	"github.com/spec-kit/field-insights/internal/timeline"
	"github.com/spec-kit/field-insights/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	location, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("field_insights")

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Pool != nil {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer mongo.Close()

	pool := pg.Pool
	accountRepo := repository.NewAccountRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	unitRepo := repository.NewUnitRepository(pool)
	recordingRepo := repository.NewRecordingRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	annotationRepo := repository.NewAnnotationRepository(pool)
	if mongo != nil {
		annotationRepo = repository.NewMongoAnnotationRepository(mongo.Annotations())
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.Start(dispatcher,
		service.NewNotificationService(dispatcher, logger),
		worker.NewTranscriptionWorker(worker.NewRedisQueue(redis.Client, cfg.Transcription.QueueKey), recordingRepo, logger),
	)

	filter := scope.NewFilter(scope.FilterDependencies{
		Resolver: hierarchy.NewResolver(accountRepo, logger, metrics),
		Units:    unitRepo,
		Stores:   storeRepo,
		Logger:   logger,
	})
	windows := timeline.NewResolver(time.Now, location)
	aggregator := insights.NewAggregator(insights.AggregatorDependencies{
		Recordings:  recordingRepo,
		Stores:      storeRepo,
		Accounts:    accountRepo,
		Feedback:    feedbackRepo,
		Annotations: annotationRepo,
		Location:    location,
		Logger:      logger,
		Metrics:     metrics,
	})

	authService := service.NewAuthService(cfg.Auth, accountRepo, logger)
	recordingService := service.NewRecordingService(service.RecordingDependencies{
		RecordingRepo: recordingRepo,
		Filter:        filter,
		Windows:       windows,
		Aggregator:    aggregator,
		Dispatcher:    dispatcher,
		Transcription: cfg.Transcription,
		Logger:        logger,
	})
	insightsService := service.NewInsightsService(service.InsightsDependencies{
		Filter:     filter,
		Windows:    windows,
		Aggregator: aggregator,
		TopN:       cfg.Insights.TopN,
		Logger:     logger,
	})
	feedbackService := service.NewFeedbackService(service.FeedbackDependencies{
		FeedbackRepo:           feedbackRepo,
		RecordingRepo:          recordingRepo,
		AccountRepo:            accountRepo,
		Filter:                 filter,
		Windows:                windows,
		Dispatcher:             dispatcher,
		DuplicateContactWindow: cfg.Insights.DuplicateContactWindow(),
		Logger:                 logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo:   accountRepo,
		StoreRepo:     storeRepo,
		UnitRepo:      unitRepo,
		RecordingRepo: recordingRepo,
		Filter:        filter,
		Logger:        logger,
	})

	probes := map[string]handlers.Pinger{"postgres": pg, "redis": redis}
	if mongo != nil {
		probes["mongo"] = mongo
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, probes),
		Auth:           handlers.NewAuthHandler(authService),
		Recordings:     handlers.NewRecordingsHandler(recordingService, insightsService),
		Feedback:       handlers.NewFeedbackHandler(feedbackService),
		Team:           handlers.NewTeamHandler(accountService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), accountRepo),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
