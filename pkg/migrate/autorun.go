package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/kasir-pos/pkg/config"
	"github.com/angelmondragon/kasir-pos/pkg/db"
	"github.com/angelmondragon/kasir-pos/pkg/logger"
)

// MaybeAutoRun applies the embedded migrations at startup when
// KASIR_DB_AUTO_MIGRATE is set, so a fresh sqlite file gets the demo catalog.
func MaybeAutoRun(ctx context.Context, cfg config.DBConfig, logg *logger.Logger, client *db.Client) error {
	if !cfg.AutoMigrate || client == nil {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "db_driver", client.Driver())
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, client.Driver(), "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
