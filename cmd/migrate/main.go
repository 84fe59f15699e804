// Command migrate runs goose SQL migrations against the configured
// PostgreSQL database.
//
// Usage: migrate up|down|status|version|create <name>
package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/pipecrest/crm-api/internal/config"
)

const migrationsDir = "./migrations"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate up|down|status|version|create <name>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	switch cmd := args[0]; cmd {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		fmt.Println("migration rolled back")
	case "status":
		return goose.Status(db, migrationsDir)
	case "version":
		return goose.Version(db, migrationsDir)
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create requires a migration name")
		}
		if err := goose.Create(db, migrationsDir, args[1], "sql"); err != nil {
			return fmt.Errorf("creating migration: %w", err)
		}
		fmt.Printf("created migration %s\n", args[1])
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
