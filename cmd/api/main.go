package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/routes"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/cron"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/enquiries"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/settings"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/migrate"
	"github.com/angelmondragon/marketplace-backend/pkg/redis"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"store": cfg.Store.Backend,
		"auth":  cfg.Auth.Mode,
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

// backends holds the optional infrastructure clients so they can be closed together.
type backends struct {
	db    *db.Client
	redis *redis.Client
}

func (b *backends) Close() error {
	var err error
	if b.db != nil {
		err = multierr.Append(err, b.db.Close())
	}
	if b.redis != nil {
		err = multierr.Append(err, b.redis.Close())
	}
	return err
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	infra := &backends{}
	defer func() {
		err = multierr.Append(err, infra.Close())
	}()

	if cfg.Redis.Enabled() {
		if infra.redis, err = redis.New(ctx, cfg.Redis, logg); err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
	}

	backend, err := storeBackend(ctx, cfg, logg, infra)
	if err != nil {
		return err
	}
	store, err := kvstore.New(backend, logg)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	marketplaceMetrics := metrics.NewMarketplace(reg)
	jobMetrics := metrics.NewJobMetrics(reg)

	productSvc, err := products.NewService(products.NewRepository(store))
	if err != nil {
		return fmt.Errorf("create product service: %w", err)
	}
	enquirySvc, err := enquiries.NewService(enquiries.NewRepository(store))
	if err != nil {
		return fmt.Errorf("create enquiry service: %w", err)
	}
	dashboardSvc, err := dashboard.NewService(productSvc, enquirySvc)
	if err != nil {
		return fmt.Errorf("create dashboard service: %w", err)
	}

	var (
		authenticator session.Authenticator = session.NewDemoAuthenticator()
		passwords     settings.PasswordChanger
	)
	if cfg.Auth.Mode == config.AuthModeCredentials {
		creds := session.NewCredentialAuthenticator(users.NewCredentialRepository(store), security.NewHasher(cfg.Password))
		authenticator, passwords = creds, creds
	}

	manager, err := workspace.NewManager(workspace.Deps{
		Store:            store,
		Authenticator:    authenticator,
		PaymentProcessor: checkout.SimulatedProcessor{Delay: cfg.Checkout.PaymentDelay},
		SessionOptions: session.Options{
			LoginDelay:  cfg.Auth.LoginDelay,
			SignupDelay: cfg.Auth.SignupDelay,
		},
		Logger:  logg,
		Metrics: marketplaceMetrics,
	})
	if err != nil {
		return fmt.Errorf("create workspace manager: %w", err)
	}

	sweeper, err := sweepService(cfg, logg, manager, jobMetrics, infra.redis)
	if err != nil {
		return err
	}

	params := routes.Params{
		Config:     cfg,
		Logger:     logg,
		Workspaces: manager,
		Products:   productSvc,
		Enquiries:  enquirySvc,
		Dashboard:  dashboardSvc,
		Settings:   settings.NewService(cfg.Settings.ProfileDelay, passwords),
		Metrics:    marketplaceMetrics,
		Gatherer:   reg,
		Readiness:  map[string]controllers.Pinger{"store": store},
	}
	// Interface fields stay nil without redis so the middleware switches itself off.
	if infra.redis != nil {
		params.Attempts = infra.redis
		params.Idempotency = infra.redis
		params.Readiness["redis"] = infra.redis
	}

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sweepDone := make(chan error, 1)
	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			sweepDone <- err
		}
		close(sweepDone)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	cancel()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancelShutdown()
	err = multierr.Append(err, server.Shutdown(shutdownCtx))
	err = multierr.Append(err, <-sweepDone)
	return err
}

func storeBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger, infra *backends) (kvstore.Backend, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		return kvstore.NewRedisBackend(infra.redis)

	case config.StoreBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		infra.db = client
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, fmt.Errorf("run dev migrations: %w", err)
		}
		return kvstore.NewSQLBackend(client.DB())

	default:
		return kvstore.NewMemoryBackend(), nil
	}
}

func sweepService(cfg *config.Config, logg *logger.Logger, manager *workspace.Manager, jobMetrics *metrics.JobMetrics, redisClient *redis.Client) (*cron.Service, error) {
	job, err := cron.NewWorkspaceSweepJob(cron.WorkspaceSweepJobParams{
		Logger:  logg,
		Sweeper: manager,
		IdleTTL: cfg.Workspace.IdleTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create workspace sweep job: %w", err)
	}

	var lock cron.Lock
	if redisClient != nil {
		env := cfg.App.Env
		if env == "" {
			env = "local"
		}
		if lock, err = cron.NewRedisLock(redisClient, env, 0); err != nil {
			return nil, fmt.Errorf("create sweep lock: %w", err)
		}
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry().Every(cfg.Workspace.SweepInterval, job),
		Lock:     lock,
		Metrics:  jobMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create cron service: %w", err)
	}
	return service, nil
}
