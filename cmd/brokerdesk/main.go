package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/brokerdesk/brokerdesk/internal/access"
	"github.com/brokerdesk/brokerdesk/internal/app"
	"github.com/brokerdesk/brokerdesk/internal/auth"
	"github.com/brokerdesk/brokerdesk/internal/borrowers"
	"github.com/brokerdesk/brokerdesk/internal/broker"
	"github.com/brokerdesk/brokerdesk/internal/dashboard"
	"github.com/brokerdesk/brokerdesk/internal/identity"
	"github.com/brokerdesk/brokerdesk/internal/observability"
	"github.com/brokerdesk/brokerdesk/internal/onboarding"
	"github.com/brokerdesk/brokerdesk/internal/platform/cache"
	"github.com/brokerdesk/brokerdesk/internal/platform/db"
	"github.com/brokerdesk/brokerdesk/internal/shared"
	"github.com/brokerdesk/brokerdesk/internal/users"
	"github.com/brokerdesk/brokerdesk/internal/view"
	"github.com/brokerdesk/brokerdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "brokerdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	var borrowerRepo borrowers.RepositoryPort
	var brokerRepo broker.RepositoryPort
	switch cfg.DataSource {
	case app.DataSourcePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		borrowerRepo = borrowers.NewPGRepository(pool)
		brokerRepo = broker.NewPGRepository(pool)
	default:
		borrowerRepo = borrowers.NewMockRepository(cfg.MockLatency)
		brokerRepo = broker.NewMockRepository(cfg.MockLatency)
	}

	notifier, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	directory := identity.NewDemoDirectory()
	authService := auth.NewService(directory, logger, auth.Config{
		LoginLatency:  cfg.LoginLatency,
		LogoutLatency: cfg.LogoutLatency,
	})
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager, metrics)

	guard := access.Middleware{Logger: logger, Metrics: metrics}

	borrowerService := borrowers.NewService(borrowerRepo, notifier, logger)
	borrowersHandler := borrowers.NewHandler(logger, borrowerService, guard)

	brokerService := broker.NewService(brokerRepo)

	dashboardHandler := dashboard.NewHandler(logger, borrowerService, brokerService, onboarding.NewStaticSource(), templates, csrfManager, cfg.BrokerID)

	usersService := users.NewService(directory)
	usersHandler := users.NewHandler(logger, usersService, templates, csrfManager, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		BorrowersHandler: borrowersHandler,
		UsersHandler:     usersHandler,
		Guard:            guard,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
