package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fleet-admin/internal/api/http"
	"github.com/spec-kit/fleet-admin/internal/api/http/handlers"
	"github.com/spec-kit/fleet-admin/internal/auth"
	"github.com/spec-kit/fleet-admin/internal/backend"
	"github.com/spec-kit/fleet-admin/internal/config"
	"github.com/spec-kit/fleet-admin/internal/domain"
	"github.com/spec-kit/fleet-admin/internal/events"
	"github.com/spec-kit/fleet-admin/internal/listview"
	"github.com/spec-kit/fleet-admin/internal/observability"
	"github.com/spec-kit/fleet-admin/internal/persistence"
	"github.com/spec-kit/fleet-admin/internal/repository"
	"github.com/spec-kit/fleet-admin/internal/service"
	"github.com/spec-kit/fleet-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	client := backend.NewClient(cfg.Backend, logger, metrics)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTLMinutes)

	var history repository.StatusHistoryRepository
	if pool := pg.PoolHandle(); pool != nil {
		history = repository.NewStatusHistoryRepository(pool)
	}
	viewStates := repository.NewViewStateRepository(redis, cfg.Listing.ViewIdleTTL())

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, history, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	viewFactory := func(actor domain.ActorContext) *listview.Controller {
		return listview.NewController(actor,
			func(a domain.ActorContext) listview.Fetcher { return client.For(a) },
			listview.Options{
				PageSize:       cfg.Listing.PageSize,
				BranchPageSize: cfg.Backend.BranchPageSize,
				Logger:         logger,
				Metrics:        metrics,
			})
	}
	registry := listview.NewRegistry(viewFactory, viewStates, cfg.Listing.ViewIdleTTL(), logger, metrics)
	sweeperDone := worker.StartViewSweeper(ctx, registry, cfg.Listing.SweepInterval(), logger)

	viewService := service.NewEmployeeViewService(registry, dispatcher, logger)
	dashboardService := service.NewDashboardService(
		func(a domain.ActorContext) service.DashboardFetcher { return client.For(a) }, cfg.Backend.Timeout(), logger)
	historyService := service.NewStatusHistoryService(history,
		func(a domain.ActorContext) service.BranchResolver { return client.For(a) })

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		EmployeeViews:     handlers.NewEmployeeViewsHandler(viewService),
		Notifications:     handlers.NewNotificationsHandler(dashboardService),
		StatusHistory:     handlers.NewStatusHistoryHandler(historyService),
		SessionMiddleware: auth.NewSessionMiddleware(tokens),
		Metrics:           metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-sweeperDone
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
