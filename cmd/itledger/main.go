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
	"golang.org/x/sync/errgroup"

	"github.com/itledger/itledger/internal/app"
	"github.com/itledger/itledger/internal/assets"
	"github.com/itledger/itledger/internal/auth"
	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/dashboard"
	"github.com/itledger/itledger/internal/observability"
	"github.com/itledger/itledger/internal/permissions"
	"github.com/itledger/itledger/internal/platform/cache"
	"github.com/itledger/itledger/internal/platform/db"
	"github.com/itledger/itledger/internal/projects"
	"github.com/itledger/itledger/internal/scope"
	"github.com/itledger/itledger/internal/token"
	"github.com/itledger/itledger/internal/users"
	"github.com/itledger/itledger/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	issuer, err := token.NewIssuer(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL)
	if err != nil {
		logger.Error("init token issuer", slog.Any("error", err))
		os.Exit(1)
	}
	guard := authz.Middleware{Verifier: issuer, Logger: logger}

	permissionsRepo := permissions.NewRepository(pool)
	permissionsService := permissions.NewService(permissionsRepo)
	permissionsHandler := permissions.NewHandler(logger, permissionsService, guard)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, permissionsService)
	usersHandler := users.NewHandler(logger, usersService, guard)

	projectsRepo := projects.NewRepository(pool)
	projectsService := projects.NewService(projectsRepo)
	projectsHandler := projects.NewHandler(logger, projectsService, guard)

	resolver := scope.NewResolver(usersRepo, projectsRepo, logger)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, permissionsRepo, issuer, logger)
	authHandler := auth.NewHandler(logger, authService, cfg.LoginRateLimit)

	assetsRepo := assets.NewRepository(pool)
	assetsService := assets.NewService(assetsRepo, resolver)
	assetsHandler := assets.NewHandler(logger, assetsService, guard)

	metrics := observability.NewMetrics()

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardRepo := dashboard.NewRepository(pool)
	dashboardService := dashboard.NewService(dashboardRepo, resolver, dashboardCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, guard)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Guard:              guard,
		AuthHandler:        authHandler,
		UsersHandler:       usersHandler,
		ProjectsHandler:    projectsHandler,
		PermissionsHandler: permissionsHandler,
		AssetsHandler:      assetsHandler,
		DashboardHandler:   dashboardHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
