package migrate

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// MaybeRunDev migrates to the latest version on boot. It is a no-op outside
// dev or when STOREFRONT_AUTO_MIGRATE is off.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := cfg.DB.Dialect(cfg.FeatureFlags.UseSQLite)
	dir := DirFor(DefaultDir, dialect)

	var applied bytes.Buffer
	if err := Run(ctx, sqlDB, dialect, dir, "up", &applied); err != nil {
		return fmt.Errorf("dev auto-migrate: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(applied.String()), "\n")
	if applied.Len() == 0 {
		lines = nil
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"dialect": dialect,
		"dir":     dir,
		"applied": lines,
	}), "migrate.dev_autorun")
	return nil
}
