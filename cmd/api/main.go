package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/auth"
	"github.com/pipecrest/crm-api/internal/cache"
	"github.com/pipecrest/crm-api/internal/config"
	"github.com/pipecrest/crm-api/internal/database"
	"github.com/pipecrest/crm-api/internal/http/handler"
	"github.com/pipecrest/crm-api/internal/http/middleware"
	"github.com/pipecrest/crm-api/internal/http/router"
	"github.com/pipecrest/crm-api/internal/jobs"
	"github.com/pipecrest/crm-api/internal/logger"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/repository"
	"github.com/pipecrest/crm-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	clock := reporting.SystemClock{Loc: cfg.Reporting.Location()}

	// Pick the report cache backend. The engine works identically against
	// all three, only freshness-window persistence differs.
	var reportCache cache.ReportCache
	var sweeper jobs.ExpiredSweeper
	switch cfg.Cache.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		reportCache = cache.NewRedisCache(client)
		log.Info("Report cache using redis", zap.String("addr", cfg.Cache.RedisAddr))
	case "disabled":
		reportCache = cache.Disabled{}
		log.Info("Report cache disabled")
	default:
		dbCache := cache.NewDatabaseCache(db, clock)
		reportCache = dbCache
		sweeper = dbCache
		log.Info("Report cache using database table")
	}

	// Repositories
	dealRepo := repository.NewDealRepository(db)
	stageRepo := repository.NewStageRepository(db)
	contactRepo := repository.NewContactRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewDealStageHistoryRepository(db)

	// Services
	resolver := reporting.NewResolver(clock, userRepo, log)
	reportingService := service.NewReportingService(
		dealRepo, stageRepo, contactRepo, orgRepo, taskRepo, activityRepo, userRepo,
		resolver, reportCache, clock, cfg.Cache.ReportTTL(), log,
	)
	dealService := service.NewDealService(dealRepo, stageRepo, historyRepo, resolver, clock, log)

	// Middleware and handlers
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	reportHandler := handler.NewReportHandler(reportingService, log)
	dealHandler := handler.NewDealHandler(dealService, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, reportHandler, dealHandler)

	// Background sweep keeps the cached_reports table bounded. Redis and
	// disabled backends expire entries themselves.
	var scheduler *jobs.Scheduler
	if sweeper != nil && cfg.Cache.SweepCron != "" {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterCacheSweepJob(scheduler, sweeper, log, cfg.Cache.SweepCron); err != nil {
			log.Error("Failed to register cache sweep job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with cache sweep job",
				zap.String("cron_expr", cfg.Cache.SweepCron))
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			stopCtx := scheduler.Stop()
			<-stopCtx.Done()
			log.Info("Scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
