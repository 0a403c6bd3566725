package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/config"
	"housiee-backend/pkg/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding NNNNNN_name.up.sql / .down.sql files")
	steps := flag.Int("steps", 1, "number of migrations to revert with down")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: migrate [flags] up|down|status\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	if err := run(command, *dir, *steps); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Migration failed")
	}
}

func run(command, dir string, steps int) error {
	migrations, err := LoadMigrations(dir)
	if err != nil {
		return err
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m := NewMigrator(db, migrations)

	switch command {
	case "up":
		n, err := m.Up(ctx)
		log.Info().Int("applied", n).Msg("Migrations up finished")
		return err
	case "down":
		if steps < 1 {
			return fmt.Errorf("steps must be at least 1")
		}
		n, err := m.Down(ctx, steps)
		log.Info().Int("reverted", n).Msg("Migrations down finished")
		return err
	case "status":
		return m.Status(ctx)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
