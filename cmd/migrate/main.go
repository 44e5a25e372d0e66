package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/config"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/migrate"
)

type options struct {
	cmd     string
	root    string
	name    string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command: up|down|status|version|create|validate")
	flag.StringVar(&opts.root, "dir", migrate.DefaultRoot, "migrations root holding postgres/ and sqlite/ (create, validate)")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	if err := run(ctx, logg, opts); err != nil {
		logg.Error(logg.WithField(ctx, "cmd", opts.cmd), "migrate.failed", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, opts options) error {
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("missing -name for create")
		}
		paths, err := migrate.CreatePair(opts.root, opts.name)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "paths", paths), "migrate.created")
		return nil

	case "validate":
		if err := migrate.ValidateTree(opts.root); err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "root", opts.root), "migrate.validated")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dialect := migrate.DialectForDriver(cfg.DB.Driver)
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": opts.cmd, "dialect": dialect})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer client.Close()

	sqlDB, err := client.SQLDB()
	if err != nil {
		return err
	}

	switch opts.cmd {
	case "up", "down", "status":
		err = migrate.Run(ctx, sqlDB, dialect, opts.cmd)
	case "version":
		if opts.version == "" {
			return errors.New("missing -version for version command")
		}
		err = migrate.MigrateToVersion(ctx, sqlDB, dialect, opts.version)
	default:
		return fmt.Errorf("unknown -cmd value %q", opts.cmd)
	}
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate.finished")
	return nil
}
