package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/migrations"
)

// Migrate applies every pending migration for driver to db and returns the
// resulting schema version.
func Migrate(ctx context.Context, db *gorm.DB, driver string, logger *slog.Logger) (int64, error) {
	var dialect goose.Dialect
	switch driver {
	case "sqlite":
		dialect = goose.DialectSQLite3
	case "postgres":
		dialect = goose.DialectPostgres
	default:
		return 0, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if logger == nil {
		return 0, errors.New("logger is nil")
	}

	fsys, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s migrations: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys, goose.WithSlog(logger))
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.InfoContext(ctx, "database migrated",
		slog.String("driver", driver),
		slog.Int("applied", len(results)),
		slog.Int64("version", version),
	)
	return version, nil
}
