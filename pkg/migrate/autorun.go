package migrate

import (
	"context"
	"fmt"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/config"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

// bootReason explains why migrations run on API boot, or returns "" when
// they should not.
func bootReason(cfg *config.Config) string {
	switch {
	case cfg.DB.IsSQLite():
		return "sqlite"
	case cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate:
		return "dev_auto_migrate"
	default:
		return ""
	}
}

// MaybeRunDev applies pending migrations on boot for sqlite databases and
// for dev environments with auto-migrate on. Production schemas move only
// through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	reason := bootReason(cfg)
	if reason == "" {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := DialectForDriver(cfg.DB.Driver)
	ctx = logg.WithFields(ctx, map[string]any{"dialect": dialect, "reason": reason})
	if err := Up(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("boot migrations (%s): %w", reason, err)
	}
	logg.Info(ctx, "migrate.boot_applied")
	return nil
}
