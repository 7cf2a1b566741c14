package main

import (
	"context"
	"log"

	"demonlist/internal/config"
	"demonlist/internal/store"
)

func main() {
	log.Println("Starting database migration...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed loading configuration: %v", err)
	}
	if err := cfg.RequireDB(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Attempting to connect with driver: %s", cfg.DBDriver)

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBSource, cfg.Logger())
	if err != nil {
		log.Fatalf("failed opening connection to %s: %v", cfg.DBDriver, err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("failed creating schema resources: %v", err)
	}

	for _, idx := range store.Indexes() {
		log.Printf("index %s on %s", idx.Name(), idx.Table)
	}
	log.Println("Database migration completed successfully.")
}
