package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/assignment-service/internal/api/http"
	"github.com/spec-kit/assignment-service/internal/api/http/handlers"
	"github.com/spec-kit/assignment-service/internal/config"
	"github.com/spec-kit/assignment-service/internal/events"
	"github.com/spec-kit/assignment-service/internal/observability"
	"github.com/spec-kit/assignment-service/internal/persistence"
	"github.com/spec-kit/assignment-service/internal/repository"
	"github.com/spec-kit/assignment-service/internal/seed"
	"github.com/spec-kit/assignment-service/internal/service"
	"github.com/spec-kit/assignment-service/internal/transport"
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

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	var store repository.Store
	if pool := pg.PoolHandle(); pool != nil {
		store = repository.NewPostgresStore(pool)
	} else {
		logger.Warn("running with in-memory store; state is lost on restart")
		store = repository.NewMemoryStore()
	}

	if cfg.Seed.Enabled {
		if err := seed.Agents(ctx, store, logger); err != nil {
			logger.Fatal("failed to seed agents", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	recorder := service.NewEventRecorder(dispatcher, logger, metrics)
	recorder.RegisterHandlers()

	publisher := transport.NewRedisPublisher(redisConn.Client)
	notifier := service.NewAssignmentNotifier(publisher, cfg.Transport.TicketAssignmentsStream, cfg.Transport.PublishTimeout(), logger)

	agentService := service.NewAgentService(store, logger)
	ticketService := service.NewTicketService(store, dispatcher, logger)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		Store:      store,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	intakeService := service.NewIntakeService(store, dispatcher, logger)

	consumer := transport.NewConsumer(redisConn.Client, cfg.Transport, logger, intakeService.HandleTicketCreated)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			logger.Error("ticket-created consumer stopped", zap.Error(err))
		}
	}()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Agents:  handlers.NewAgentsHandler(agentService),
		Tickets: handlers.NewTicketsHandler(ticketService, assignmentService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
