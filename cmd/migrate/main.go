package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"message-api/config"
	"message-api/internal/repository"
	"message-api/pkg/database"

	"gorm.io/gorm"
)

const usage = `
Message API - Database CLI Tool

Usage:
  migrate [flags] [command]

Commands:
  up          Create or update the users and messages tables
  status      Show database connection status and row counts
  seed        Create the sample user (no-op if it already exists)
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -user-id string    Id of the seeded user (default "aaaaaaaaaaaa")
  -username string   Username of the seeded user (default "myuser")
  -password string   Password of the seeded user (default "mypassword")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
  go run cmd/migrate/main.go -username alice -password secret seed
`

func main() {
	defaults := database.DefaultSeedConfig()
	userID := flag.String("user-id", defaults.UserID, "Id of the seeded user")
	username := flag.String("username", defaults.Username, "Username of the seeded user")
	password := flag.String("password", defaults.Password, "Password of the seeded user")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	ctx := context.Background()

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer database.Close(db)

	switch command {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(ctx, db)
	case "seed":
		runSeed(ctx, db, &database.SeedConfig{
			UserID:   *userID,
			Username: *username,
			Password: *password,
		})
	case "truncate":
		runTruncate(ctx, db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("🚀 Running migrations UP...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus(ctx context.Context, db *gorm.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(ctx, db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	for _, table := range repository.Tables() {
		if !database.TableExists(ctx, db, table) {
			log.Printf("❌ Table %-10s does not exist", table)
			continue
		}
		count, err := database.GetTableCount(ctx, db, table)
		if err != nil {
			log.Printf("⚠️  Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("✅ Table %-10s exists (%d rows)", table, count)
	}

	if err := database.HealthCheck(ctx, db); err != nil {
		log.Printf("⚠️  Health check warning: %v", err)
	} else {
		log.Println("✅ Health check: PASSED")
	}
}

func runSeed(ctx context.Context, db *gorm.DB, cfg *database.SeedConfig) {
	log.Println("🌱 Seeding database...")

	u, err := database.Seed(ctx, db, cfg)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Sample user ready: %s (ID: %s, %d messages)", u.Username, u.ID, len(u.Messages))
}

func runTruncate(ctx context.Context, db *gorm.DB) {
	log.Println("⚠️  WARNING: This will TRUNCATE all tables!")

	if err := database.TruncateTables(ctx, db, repository.Tables()); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
