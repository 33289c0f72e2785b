package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/minishop-backend/pkg/config"
	"github.com/angelmondragon/minishop-backend/pkg/db"
	"github.com/angelmondragon/minishop-backend/pkg/logger"
)

// SourceDir is where `migrate -cmd=create` writes new files, relative to the repo root.
const SourceDir = "pkg/migrate/migrations"

const embeddedDir = "migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Command is a goose command that needs a database connection.
type Command string

const (
	CommandUp     Command = "up"
	CommandDown   Command = "down"
	CommandStatus Command = "status"
)

// Files exposes the migrations compiled into the binary.
func Files() fs.FS {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Apply runs cmd against the embedded migration set.
func Apply(ctx context.Context, sqlDB *sql.DB, cmd Command) error {
	if err := prepare(sqlDB); err != nil {
		return err
	}
	switch cmd {
	case CommandUp, CommandDown, CommandStatus:
	default:
		return fmt.Errorf("unsupported migrate command %q", cmd)
	}
	if err := goose.RunContext(ctx, string(cmd), sqlDB, embeddedDir); err != nil {
		return fmt.Errorf("goose %s: %w", cmd, err)
	}
	return nil
}

// ApplyTo moves the schema up or down until it sits at version.
func ApplyTo(ctx context.Context, sqlDB *sql.DB, version int64) error {
	if version <= 0 {
		return errors.New("target version must be positive")
	}
	if err := prepare(sqlDB); err != nil {
		return err
	}

	current, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case current < version:
		err = goose.UpToContext(ctx, sqlDB, embeddedDir, version)
	case current > version:
		err = goose.DownToContext(ctx, sqlDB, embeddedDir, version)
	}
	if err != nil {
		return fmt.Errorf("migrate %d -> %d: %w", current, version, err)
	}
	return nil
}

// AutoApply runs pending migrations on boot in dev when the feature flag allows it.
func AutoApply(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	if err := Apply(ctx, sqlDB, CommandUp); err != nil {
		return err
	}
	logg.Info(ctx, "migrate.auto_applied")
	return nil
}

func prepare(sqlDB *sql.DB) error {
	if sqlDB == nil {
		return errors.New("db is required")
	}
	goose.SetBaseFS(embedded)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
