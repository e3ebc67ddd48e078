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
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/migrate"
)

const usage = `usage: migrate -cmd <command> [flags]

commands:
  up        apply all pending migrations
  down      roll back the latest migration
  reset     roll back every migration
  status    list applied and pending migrations
  version   migrate up or down to -version
  create    write a new migration for every dialect (-name)
  validate  check goose markers and that dialect dirs match
`

type options struct {
	cmd     string
	base    string
	name    string
	version string
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "migration command")
	flag.StringVar(&opts.base, "dir", migrate.DefaultDir, "root of the per-dialect migration directories")
	flag.StringVar(&opts.name, "name", "", "migration name for create")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for version")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// create and validate only touch the filesystem.
	switch opts.cmd {
	case "create":
		exitOn(createMigration(opts))
		return
	case "validate":
		exitOn(migrate.ValidateDialects(opts.base))
		fmt.Println("migration validation passed")
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	exitOn(err)

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg, opts); err != nil {
		logg.Error(ctx, "migrate.failed", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) (err error) {
	dialect := cfg.DB.Dialect(cfg.FeatureFlags.UseSQLite)
	dir := migrate.DirFor(opts.base, dialect)
	ctx = logg.WithFields(ctx, map[string]any{"cmd": opts.cmd, "dialect": dialect, "dir": dir})

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, client.Close()) }()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(sqlDB, dialect, dir)
	if err != nil {
		return err
	}

	if opts.cmd == "version" {
		if opts.version == "" {
			return errors.New("-version is required for the version command")
		}
		err = runner.MigrateTo(ctx, opts.version)
	} else {
		err = runner.Exec(ctx, opts.cmd, os.Stdout)
	}
	if err == nil {
		logg.Info(ctx, "migrate.done")
	}
	return err
}

func createMigration(opts options) error {
	if opts.name == "" {
		return errors.New("-name is required for create")
	}
	paths, err := migrate.CreateSQLMigration(opts.base, opts.name)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Println("created", path)
	}
	return nil
}

func exitOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "migrate:", err)
	os.Exit(1)
}
