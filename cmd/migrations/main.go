package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/metrics"
	"github.com/goodnatureofminers/walletmigrate-backend/internal/store/sqlstore"
)

const (
	targetSQLite     = "sqlite"
	targetPostgres   = "postgres"
	targetClickhouse = "clickhouse"
)

type config struct {
	Target        string `long:"target" env:"MIGRATIONS_TARGET" description:"database to migrate" choice:"sqlite" choice:"postgres" choice:"clickhouse" required:"true"`
	DSN           string `long:"dsn" env:"MIGRATIONS_DSN" description:"DSN of the target database" required:"true"`
	MigrationsDir string `long:"migrations-dir" env:"MIGRATIONS_DIR" default:"migrations/clickhouse" description:"Path to ClickHouse migration files"`
}

func main() {
	cfg := config{}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.Parse(&cfg); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(ctx, cfg, logger); err != nil {
		logger.Fatal("migration run failed", zap.String("target", cfg.Target), zap.Error(err))
	}
}

func runMigrations(ctx context.Context, cfg config, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch cfg.Target {
	case targetSQLite:
		return migrateStore(ctx, sqlstore.DriverSQLite, cfg.DSN, logger)
	case targetPostgres:
		return migrateStore(ctx, sqlstore.DriverPostgres, cfg.DSN, logger)
	case targetClickhouse:
		return migrateClickhouse(cfg.MigrationsDir, cfg.DSN, logger)
	default:
		return fmt.Errorf("unknown target %q", cfg.Target)
	}
}

// migrateStore applies the wallet store schema embedded in sqlstore.
func migrateStore(ctx context.Context, driver sqlstore.Driver, dsn string, logger *zap.Logger) error {
	store, err := sqlstore.Open(driver, dsn, metrics.NewStore(string(driver)))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("store close error", zap.Error(closeErr))
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("store migrations applied successfully", zap.String("driver", string(driver)))
	return nil
}

func migrateClickhouse(migrationsDir, dsn string, logger *zap.Logger) error {
	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat migrations dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(dir))
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("migration source close error", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("migration database close error", zap.Error(dbErr))
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migrations to apply")
			return nil
		}
		return err
	}

	logger.Info("clickhouse migrations applied successfully")
	return nil
}
