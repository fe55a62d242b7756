// cmd/dbtools/migrate/main.go
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/config"
	appdb "github.com/codr1/wfxconsole/internal/db"
)

func main() {
	var (
		configPath     = flag.String("config", "config.yaml", "Path to the console config file")
		dbPath         = flag.String("db", "", "Path to SQLite database (defaults to database.filename from the config)")
		migrationsPath = flag.String("migrations", "", "Path to a migrations directory (defaults to the embedded migrations)")
		command        = flag.String("command", "", "Command to run (up, down, version)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *dbPath == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if cfg.Database.Driver != "sqlite" {
			log.Fatal().Str("driver", cfg.Database.Driver).Msg("Migrations only apply to the sqlite driver")
		}
		*dbPath = cfg.Database.Filename
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}

	m, err := newMigrator(*dbPath, *migrationsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration init failed")
	}
	defer m.Close()

	logger := log.With().Str("db", *dbPath).Str("command", *command).Logger()

	// Execute command
	switch *command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("Migration up failed")
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal().Err(err).Msg("Migration down failed")
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Fatal().Err(err).Msg("Get version failed")
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
		return
	default:
		logger.Fatal().Msg("Unknown command")
	}
	logger.Info().Msg("Migration complete")
}

// newMigrator uses the migrations directory when one is given, otherwise the
// migrations embedded in the server binary.
func newMigrator(dbPath, migrationsPath string) (*migrate.Migrate, error) {
	if migrationsPath != "" {
		abs, err := filepath.Abs(migrationsPath)
		if err != nil {
			return nil, fmt.Errorf("invalid migrations path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("migrations directory: %w", err)
		}
		return migrate.New("file://"+abs, "sqlite3://"+dbPath)
	}

	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return appdb.NewMigrator(sqlDB)
}
