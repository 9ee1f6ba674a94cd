package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// shouldAutoRun limits start-up migrations to local sql-backed runs that opted in.
func shouldAutoRun(cfg *config.Config) bool {
	return cfg.Store.Backend == config.StoreBackendSQL && cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// MaybeRunDev brings the kv schema up to date from the embedded migrations. Other environments
// run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !shouldAutoRun(cfg) {
		return nil
	}
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}
	migrator, err := New(sqlDB, client.Driver(), Embedded(), logg)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "driver", client.Driver())
	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logg.Info(ctx, "migrate.auto_run.done")
	return nil
}
