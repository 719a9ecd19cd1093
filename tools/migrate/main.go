package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/orgball2608/stories-telegram-bot/internal/migrations"
	"github.com/orgball2608/stories-telegram-bot/pkg/config"
	"github.com/pressly/goose/v3"
)

const usage = "Usage: migrate [up|down|status|reset|version|create <name>]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	command := os.Args[1]

	// New migrations are Go files written next to the embedded ones.
	if command == "create" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: migrate create <name>")
		}
		if err := goose.Create(nil, "internal/migrations", os.Args[2], "go"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		return
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := goose.Up(db, migrations.Dir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, migrations.Dir); err != nil {
			log.Fatalf("Failed to rollback migration: %v", err)
		}
		fmt.Println("Migration rollback successful")
	case "status":
		if err := goose.Status(db, migrations.Dir); err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
	case "version":
		if err := goose.Version(db, migrations.Dir); err != nil {
			log.Fatalf("Failed to get migration version: %v", err)
		}
	case "reset":
		if err := goose.Reset(db, migrations.Dir); err != nil {
			log.Fatalf("Failed to reset migrations: %v", err)
		}
		fmt.Println("All migrations have been rolled back")
	default:
		log.Fatalf("Unknown command: %s\n%s", command, usage)
	}
}
