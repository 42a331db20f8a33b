package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/placement-admin/internal/api/http"
	"github.com/spec-kit/placement-admin/internal/api/http/handlers"
	"github.com/spec-kit/placement-admin/internal/auth"
	"github.com/spec-kit/placement-admin/internal/config"
	"github.com/spec-kit/placement-admin/internal/events"
	"github.com/spec-kit/placement-admin/internal/observability"
	"github.com/spec-kit/placement-admin/internal/persistence"
	"github.com/spec-kit/placement-admin/internal/platform"
	"github.com/spec-kit/placement-admin/internal/repository"
	"github.com/spec-kit/placement-admin/internal/service"
	"github.com/spec-kit/placement-admin/internal/store"
	"github.com/spec-kit/placement-admin/internal/worker"
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

	pool := pg.PoolHandle()
	operatorRepo := repository.NewOperatorRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	subjectMirror := store.NewSubjectMirror(redis.Client, logger, cfg.Mirror.SubjectTTLSeconds)
	inFlightGuard := store.NewInFlightGuard(redis.Client, cfg.Mirror.InFlightTTLSeconds)
	intentStore := store.NewIntentStore(redis.Client, cfg.Auth.StagedIntentTTLMinutes)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, operatorRepo)
	directoryService := service.NewDirectoryService(*cfg, service.DirectoryDependencies{
		OperatorRepo: operatorRepo,
		IntentStore:  intentStore,
		Dispatcher:   dispatcher,
	})
	verificationService := service.NewVerificationService(service.VerificationDependencies{
		Platform:   platform.NewClient(cfg.Platform),
		Mirror:     subjectMirror,
		Guard:      inFlightGuard,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Navigation:     handlers.NewNavigationHandler(),
		Operators:      handlers.NewOperatorsHandler(directoryService),
		Verification:   handlers.NewVerificationHandler(verificationService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: authMiddleware,
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
