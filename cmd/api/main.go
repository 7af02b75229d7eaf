package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/triage-dashboard/internal/api/http"
	"github.com/spec-kit/triage-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/triage-dashboard/internal/auth"
	"github.com/spec-kit/triage-dashboard/internal/config"
	"github.com/spec-kit/triage-dashboard/internal/events"
	"github.com/spec-kit/triage-dashboard/internal/notify"
	"github.com/spec-kit/triage-dashboard/internal/observability"
	"github.com/spec-kit/triage-dashboard/internal/persistence"
	"github.com/spec-kit/triage-dashboard/internal/repository"
	"github.com/spec-kit/triage-dashboard/internal/service"
	"github.com/spec-kit/triage-dashboard/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	hub := notify.NewHub(logger)
	bridge := notify.NewBridge(redis, hub, cfg.Notify.Channel, logger)
	bridge.Register(dispatcher)
	go bridge.Listen(ctx)

	intakeService := service.NewIntakeService(ticketRepo, dispatcher)
	lifecycleService := service.NewLifecycleService(ticketRepo, dispatcher)
	ticketService := service.NewTicketService(ticketRepo, logger)
	workspaceService := service.NewWorkspaceService(ticketRepo)
	statsService := service.NewStatsService(ticketRepo, redis, cfg.Stats.CacheTTL(), logger)
	exportService := service.NewExportService(ticketRepo)
	authService := service.NewAuthService(cfg.Auth, adminRepo)

	refresher := worker.NewStatsRefresher(statsService, logger)
	if err := refresher.Start(ctx, cfg.Stats.RefreshSpec); err != nil {
		logger.Warn("stats refresher not started", zap.Error(err))
	}
	defer refresher.Stop()

	adminMiddleware := auth.NewAdminMiddleware(authService.TokenManager(), adminRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService),
		Webhooks:        handlers.NewWebhooksHandler(intakeService),
		Tickets:         handlers.NewTicketsHandler(ticketService, lifecycleService),
		Workspace:       handlers.NewWorkspaceHandler(workspaceService),
		Stats:           handlers.NewStatsHandler(statsService),
		Export:          handlers.NewExportHandler(exportService),
		Hub:             hub,
		AdminMiddleware: adminMiddleware,
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
