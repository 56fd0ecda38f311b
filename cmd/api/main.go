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

	"github.com/angelmondragon/kasir-pos/api/controllers"
	"github.com/angelmondragon/kasir-pos/api/routes"
	"github.com/angelmondragon/kasir-pos/internal/auth"
	"github.com/angelmondragon/kasir-pos/internal/catalog"
	"github.com/angelmondragon/kasir-pos/internal/checkout"
	"github.com/angelmondragon/kasir-pos/internal/dashboard"
	"github.com/angelmondragon/kasir-pos/internal/discounts"
	"github.com/angelmondragon/kasir-pos/internal/loyalty"
	"github.com/angelmondragon/kasir-pos/internal/pos"
	"github.com/angelmondragon/kasir-pos/internal/pricing"
	"github.com/angelmondragon/kasir-pos/internal/session"
	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/db"
	"github.com/angelmondragon/kasir-pos/pkg/instance"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
	"github.com/angelmondragon/kasir-pos/pkg/metrics"
	"github.com/angelmondragon/kasir-pos/pkg/migrate"
	"github.com/angelmondragon/kasir-pos/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

type providers struct {
	catalog   catalog.Provider
	discounts discounts.Source
	members   loyalty.Directory
}

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingers := map[string]controllers.Pinger{}
	var closers []func() error

	var dbClient *db.Client
	if cfg.Catalog.Source == config.CatalogSourceDB {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		requireResource(logg, "database", err)
		closers = append(closers, dbClient.Close)
		pingers["db"] = dbClient

		if err := migrate.MaybeAutoRun(ctx, cfg.DB, logg, dbClient); err != nil {
			logg.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}
	}
	src := newProviders(dbClient)

	var (
		sessions session.Store
		limiter  routes.LoginLimiter
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(logg, "redis", err)
		closers = append(closers, redisClient.Close)
		pingers["redis"] = redisClient
		limiter = redisClient

		store, err := session.NewRedisStore(redisClient, cfg.JWT.SessionTTL())
		requireResource(logg, "session store", err)
		sessions = store
	default:
		logg.Warn(ctx, "using in-memory session store; sessions are lost on restart")
		sessions = session.NewMemoryStore(cfg.JWT.SessionTTL())
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCheckoutMetrics(registry)

	engine, err := pricing.NewEngine(pricing.RulesFromConfig(cfg.Checkout))
	requireResource(logg, "pricing engine", err)

	gateway := checkout.NewSimulatedGateway(cfg.Checkout.ProcessingDelay)
	terminals, err := pos.NewRegistry(pos.OptionsFromConfig(cfg.Checkout, engine, gateway, logg, recorder))
	requireResource(logg, "terminal registry", err)

	posService, err := pos.NewService(src.catalog, src.discounts, src.members, terminals, logg)
	requireResource(logg, "pos service", err)

	accounts, err := auth.NewAccounts(cfg.Password)
	requireResource(logg, "demo accounts", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Accounts:   accounts,
		Sessions:   sessions,
		JWTConfig:  cfg.JWT,
		QuickLogin: cfg.App.DemoQuickLogin,
		Terminals:  posService,
		Metrics:    recorder,
		Logger:     logg,
	})
	requireResource(logg, "auth service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"session_store":  cfg.Session.Store,
		"catalog_source": cfg.Catalog.Source,
		"instance":       instance.GetID(),
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Pingers:   pingers,
			Limiter:   limiter,
			Sessions:  sessions,
			Gatherer:  registry,
			Auth:      authService,
			POS:       posService,
			Dashboard: dashboard.NewService(nil),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		terminals.RunSweeper(runCtx, cfg.Session.SweepInterval, session.Exists(sessions))
	}()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	}

	stop()
	<-sweepDone
	if err := shutdown(server, terminals, closers); err != nil {
		logg.Error(runCtx, "api server shutdown incomplete", err)
		exitCode = 1
	} else {
		logg.Info(runCtx, "api server stopped")
	}
	os.Exit(exitCode)
}

// shutdown drains the HTTP server, cancels in-flight payments and closes
// dependencies in reverse order of creation.
func shutdown(server *http.Server, terminals *pos.Registry, closers []func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	err = multierr.Append(err, terminals.CloseAll(ctx))
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i]())
	}
	return err
}

func newProviders(dbClient *db.Client) providers {
	if dbClient == nil {
		return providers{
			catalog:   catalog.NewStaticProvider(),
			discounts: discounts.NewStaticSource(),
			members:   loyalty.NewStaticDirectory(),
		}
	}
	return providers{
		catalog:   catalog.NewRepository(dbClient.DB()),
		discounts: discounts.NewRepository(dbClient.DB()),
		members:   loyalty.NewRepository(dbClient.DB()),
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
