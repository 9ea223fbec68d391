package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/agencia/backend/internal/infrastructure/config"
	"github.com/agencia/backend/internal/infrastructure/logger"
	"github.com/agencia/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", defaultMigrationsPath, "path to migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("failed to resolve migrations path", zap.Error(err))
	}
	migrationsPath = absPath

	// create and list work without a database connection
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("migration name required: migrate create <name>")
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1])
		if err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created",
			zap.String("version", mf.Version),
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return
	case "list":
		names, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("failed to list migrations", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(os.Getenv("APP_CONFIG_PATH"))
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	migrator, err := migration.NewFromURL(cfg.Database.MigrateURL(), migrationsPath, log)
	if err != nil {
		log.Fatal("failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error("error closing migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "steps":
		if len(args) < 2 {
			log.Fatal("step count required: migrate steps <n>")
		}
		n, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("invalid step count", zap.String("value", args[1]))
		}
		err = migrator.Steps(n)
	case "force":
		if len(args) < 2 {
			log.Fatal("version required: migrate force <version>")
		}
		v, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			log.Fatal("invalid version", zap.String("value", args[1]))
		}
		err = migrator.Force(v)
	case "version":
		version, dirty, verErr := migrator.Version()
		if verErr != nil {
			log.Fatal("failed to read version", zap.Error(verErr))
		}
		log.Info("current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("migration complete", zap.String("command", command))
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command> [args]

Commands:
  up                 apply all pending migrations
  down               roll back all migrations
  steps <n>          apply n migrations (negative rolls back)
  force <version>    set version without running migrations
  version            print current version and dirty state
  create <name>      create an empty up/down migration pair
  list               list migration files

Flags:
  -path <dir>        migrations directory (default: ./migrations)
  -log-level <lvl>   log level (default: info)`)
}
