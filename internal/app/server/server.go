package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hreval/internal/domain/auth"
	"hreval/internal/domain/core"
	"hreval/internal/domain/evaluation"
	"hreval/internal/platform/config"
	"hreval/internal/platform/db"
	"hreval/internal/platform/metrics"
	authhandler "hreval/internal/transport/http/handlers/auth"
	corehandler "hreval/internal/transport/http/handlers/core"
	evaluationhandler "hreval/internal/transport/http/handlers/evaluation"
	"hreval/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
}

// Deps are the collaborators the HTTP surface is assembled from.
type Deps struct {
	Login       authhandler.LoginService
	Roster      corehandler.RosterService
	Evaluations *evaluation.Service
	Perms       middleware.PermissionStore
	Idempotency middleware.IdempotencyKeeper
	Metrics     *metrics.Collector
	Ready       func(ctx context.Context) error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	reviewers, err := config.LoadReviewers(cfg.ReviewersFile)
	if err != nil {
		pool.Close()
		return nil, err
	}

	collector := metrics.New()
	authStore := auth.NewStore(pool)
	deps := Deps{
		Login:       auth.NewService(authStore, cfg.JWTSecret, cfg.TokenTTL),
		Roster:      core.NewService(core.NewStore(pool)),
		Evaluations: evaluation.NewService(evaluation.NewStore(pool), reviewers, collector),
		Perms:       authStore,
		Idempotency: middleware.NewIdempotencyStore(pool),
		Metrics:     collector,
		Ready:       pool.Ping,
	}

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  NewRouter(cfg, deps),
		Metrics: collector,
	}, nil
}

func NewRouter(cfg config.Config, deps Deps) http.Handler {
	window := time.Minute
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, window))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, window))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(deps.Login)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/me", authHandler.HandleMe)

		corehandler.NewHandler(deps.Roster, deps.Perms).RegisterRoutes(r)
		evaluationhandler.NewHandler(deps.Evaluations, deps.Perms, deps.Idempotency).RegisterRoutes(r)
	})

	return router
}

// Run serves until SIGINT or SIGTERM and then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("evaluation server listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
