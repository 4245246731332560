package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-classifier/internal/api/http"
	"github.com/spec-kit/ticket-classifier/internal/api/http/handlers"
	"github.com/spec-kit/ticket-classifier/internal/cache"
	"github.com/spec-kit/ticket-classifier/internal/classifier"
	"github.com/spec-kit/ticket-classifier/internal/config"
	"github.com/spec-kit/ticket-classifier/internal/events"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk/zammad"
	"github.com/spec-kit/ticket-classifier/internal/helpdesk/zendesk"
	"github.com/spec-kit/ticket-classifier/internal/observability"
	"github.com/spec-kit/ticket-classifier/internal/persistence"
	"github.com/spec-kit/ticket-classifier/internal/repository"
	"github.com/spec-kit/ticket-classifier/internal/service"
	"github.com/spec-kit/ticket-classifier/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Artifacts load before anything listens. A missing or inconsistent
	// artifact set means no service, never degraded predictions.
	artifacts, err := classifier.LoadArtifacts(classifier.ArtifactPaths{
		Vectorizer:      cfg.Artifacts.VectorizerPath,
		DepartmentModel: cfg.Artifacts.DepartmentModelPath,
		PriorityModel:   cfg.Artifacts.PriorityModelPath,
		DepartmentCodec: cfg.Artifacts.DepartmentCodecPath,
		PriorityCodec:   cfg.Artifacts.PriorityCodecPath,
	})
	if err != nil {
		logger.Fatal("failed to load artifacts", zap.Error(err))
	}
	logger.Info("artifacts loaded",
		zap.Int("dimension", artifacts.Dimension()),
		zap.Int("departments", artifacts.DepartmentCodec.Classes()),
		zap.Int("priorities", artifacts.PriorityCodec.Classes()),
		zap.String("fingerprint", artifacts.Fingerprint()),
	)

	normalizer, err := classifier.NewNormalizer()
	if err != nil {
		logger.Fatal("failed to init normalizer", zap.Error(err))
	}
	pipeline := classifier.NewPipeline(normalizer, artifacts)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	predictionCache := cache.NewPredictionCache(redis, cfg.Cache.Enabled, cfg.Cache.TTL(), artifacts.Fingerprint(), logger)

	var predictionRepo repository.PredictionRepository
	if pool := pg.PoolHandle(); pool != nil {
		predictionRepo = repository.NewPredictionRepository(pool)
	}
	worker.StartAuditWorker(dispatcher, predictionRepo, logger)

	classificationService := service.NewClassificationService(service.ClassificationDependencies{
		Pipeline:   pipeline,
		Cache:      predictionCache,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	registry := helpdesk.NewRegistry()
	if cfg.Zammad.Configured() {
		connector, err := zammad.New(cfg.Zammad, cfg.Routing.Timeout())
		if err != nil {
			logger.Fatal("failed to init zammad connector", zap.Error(err))
		}
		registry.Register(connector)
		logger.Info("zammad backend registered")
	}
	if cfg.Zendesk.Configured() {
		connector, err := zendesk.New(cfg.Zendesk, cfg.Routing.Timeout())
		if err != nil {
			logger.Fatal("failed to init zendesk connector", zap.Error(err))
		}
		registry.Register(connector)
		logger.Info("zendesk backend registered")
	}

	routingService := service.NewRoutingService(service.RoutingDependencies{
		Classification: classificationService,
		Registry:       registry,
		Config:         cfg.Routing,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, artifacts, pg, redis),
		Classify: handlers.NewClassifyHandler(classificationService, predictionRepo, cfg.App.MinDescriptionLength, cfg.App.Version),
		Route:    handlers.NewRouteHandler(routingService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
