package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"docparse/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|version|force V]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	source := os.Getenv("DOCPARSE_MIGRATIONS_SOURCE")
	if source == "" {
		source = "file://db/migrations"
	}

	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Println("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Println("migrations reverted successfully")

	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s requires a number argument", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid %s argument: %w", args[0], err)
		}
		if args[0] == "force" {
			if err := m.Force(n); err != nil {
				return fmt.Errorf("migration force failed: %w", err)
			}
			log.Printf("forced version %d", n)
			return nil
		}
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration steps failed: %w", err)
		}
		log.Printf("applied %d migration steps", n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}
