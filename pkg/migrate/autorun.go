package migrate

import (
	"context"
	"fmt"

	"github.com/daajin/poultrystore-backend/pkg/config"
	"github.com/daajin/poultrystore-backend/pkg/db"
	"github.com/daajin/poultrystore-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at API boot. It is a no-op unless
// the environment is dev and the auto-migrate flag is on; production deploys
// run cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	switch {
	case !cfg.App.IsDev():
		return nil
	case !cfg.FeatureFlags.AutoMigrate:
		return nil
	case cfg.FeatureFlags.UseSQLite:
		// goose migrations are written for Postgres; sqlite relies on AutoMigrate.
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "applying schema migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	logg.Info(ctx, "schema migrations up to date")
	return nil
}
