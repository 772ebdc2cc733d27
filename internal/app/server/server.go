package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"employee-api/internal/domain/employee"
	"employee-api/internal/platform/config"
	"employee-api/internal/platform/db"
	"employee-api/internal/platform/logger"
	"employee-api/internal/platform/metrics"
	employeehandler "employee-api/internal/transport/http/handlers/employee"
	"employee-api/internal/transport/http/api"
	"employee-api/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Logger  zerolog.Logger
	Store   employee.Repository
	Service *employee.Service
	Metrics *metrics.Collector
	Router  http.Handler

	closers []func()
}

// Run loads configuration and serves until SIGINT or SIGTERM. Resources are
// released before it returns.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log.Logger = logger.New(cfg.Environment, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	defer app.Close()

	return app.Serve(ctx)
}

// New opens the store selected by cfg.DatabaseURL, applies migrations and the
// optional seed, and builds the router.
func New(ctx context.Context, cfg config.Config, baseLogger zerolog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: baseLogger}

	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	app.Service = employee.NewService(store, baseLogger)

	if cfg.RunSeed {
		if err := app.seed(ctx); err != nil {
			app.Close()
			return nil, err
		}
	}

	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}
	app.Router = app.routes()
	return app, nil
}

func (a *App) openStore(ctx context.Context) (employee.Repository, error) {
	driver, dsn, err := db.ParseDriver(a.Config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case db.DriverPostgres:
		pool, err := db.Connect(ctx, a.Config)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if a.Config.RunMigrations {
			migrations, err := db.Migrations(driver)
			if err != nil {
				return nil, err
			}
			if err := db.Migrate(ctx, pool, migrations); err != nil {
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		a.Logger.Info().Str("driver", string(driver)).Msg("store ready")
		return employee.NewStore(pool), nil

	case db.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, dsn, a.Config.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("db open failed: %w", err)
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		if a.Config.RunMigrations {
			migrations, err := db.Migrations(driver)
			if err != nil {
				return nil, err
			}
			if err := db.MigrateSQL(ctx, conn, migrations); err != nil {
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		a.Logger.Info().Str("driver", string(driver)).Str("dsn", dsn).Msg("store ready")
		return employee.NewSQLiteStore(conn), nil
	}

	a.Logger.Warn().Msg("using in-memory store, data is lost on restart")
	return employee.NewMemoryStore(), nil
}

func (a *App) seed(ctx context.Context) error {
	f, err := os.Open(a.Config.SeedFile)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	defer f.Close()

	created, err := employee.Seed(ctx, a.Service, f)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	a.Logger.Info().Int("created", created).Str("file", a.Config.SeedFile).Msg("seed applied")
	return nil
}

func (a *App) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Logger, a.Metrics))
	router.Use(middleware.Recoverer(a.Logger))
	router.Use(middleware.SecureHeaders(a.Config.IsProduction()))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Service.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Metrics != nil {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot())
		})
	}

	router.Route("/api", func(r chi.Router) {
		employeeHandler := employeehandler.NewHandler(a.Service, a.Logger)
		employeeHandler.RegisterRoutes(r)
	})

	return router
}

// Serve listens on cfg.Addr until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Addr, err)
	}
	return a.ServeListener(ctx, ln)
}

func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info().Str("addr", ln.Addr().String()).Msg("employee api listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
		defer cancel()
		a.Logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
