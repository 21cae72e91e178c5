package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/aiverse-events/aiverse-backend/api/routes"
	"github.com/aiverse-events/aiverse-backend/internal/activity"
	"github.com/aiverse-events/aiverse-backend/internal/analytics"
	"github.com/aiverse-events/aiverse-backend/internal/events"
	"github.com/aiverse-events/aiverse-backend/internal/payments"
	"github.com/aiverse-events/aiverse-backend/internal/registrations"
	"github.com/aiverse-events/aiverse-backend/internal/users"
	"github.com/aiverse-events/aiverse-backend/internal/workflow"
	"github.com/aiverse-events/aiverse-backend/pkg/config"
	"github.com/aiverse-events/aiverse-backend/pkg/db"
	"github.com/aiverse-events/aiverse-backend/pkg/logger"
	"github.com/aiverse-events/aiverse-backend/pkg/metrics"
	"github.com/aiverse-events/aiverse-backend/pkg/migrate"
	"github.com/aiverse-events/aiverse-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		closeErr := dbClient.Close()
		return multierr.Append(err, closeErr)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		closeErr := dbClient.Close()
		return multierr.Append(err, closeErr)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	workflowMetrics := metrics.NewWorkflowMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	eventsRepo := events.NewRepository(dbClient.DB())
	registrationsRepo := registrations.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	activityRepo := activity.NewRepository(dbClient.DB())

	activityService, err := activity.NewService(activityRepo)
	if err != nil {
		return err
	}

	coordinator, err := workflow.NewCoordinator(workflow.Params{
		Registrations: registrationsRepo,
		Payments:      paymentsRepo,
		Events:        eventsRepo,
		Activities:    activityService,
		Metrics:       workflowMetrics,
		Logger:        logg,
	})
	if err != nil {
		return err
	}

	eventService, err := events.NewService(eventsRepo, cfg.Events)
	if err != nil {
		return err
	}

	registrationService, err := registrations.NewService(registrations.ServiceParams{
		Repo:  registrationsRepo,
		Tx:    dbClient,
		Hooks: coordinator,
	})
	if err != nil {
		return err
	}

	paymentService, err := payments.NewService(payments.ServiceParams{
		Repo:   paymentsRepo,
		Tx:     dbClient,
		Events: eventService,
		Hooks:  coordinator,
	})
	if err != nil {
		return err
	}

	userService, err := users.NewService(users.ServiceParams{
		Repo:           usersRepo,
		Activities:     activityService,
		Logger:         logg,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		Users:         usersRepo,
		Events:        eventsRepo,
		Registrations: registrationsRepo,
		Payments:      paymentsRepo,
		Activities:    activityService,
	})
	if err != nil {
		return err
	}

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		registry,
		userService,
		eventService,
		registrationService,
		paymentService,
		activityService,
		analyticsService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	var runErr error
	select {
	case err := <-serverErr:
		runErr = err
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			runErr = multierr.Append(runErr, err)
		}
		runErr = multierr.Append(runErr, <-serverErr)
	}

	runErr = multierr.Append(runErr, redisClient.Close())
	runErr = multierr.Append(runErr, dbClient.Close())
	return runErr
}
