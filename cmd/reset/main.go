package main

import (
	"context"
	"log"

	"demonlist/internal/config"
	"demonlist/internal/leaderboard"
	"demonlist/internal/store"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("--- Starting Database Reset ---")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed loading configuration: %v", err)
	}
	if err := cfg.RequireDB(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DBDriver, cfg.DBSource, cfg.Logger())
	if err != nil {
		log.Fatalf("failed opening connection to %s: %v", cfg.DBDriver, err)
	}
	defer db.Close()

	// Records go first: they reference both users and levels.
	res, err := db.Reset(ctx)
	if err != nil {
		log.Fatalf("failed to reset database: %v", err)
	}
	log.Printf("✅ Deleted %d records.", res.Records)
	log.Printf("✅ Deleted %d levels.", res.Levels)
	log.Printf("✅ Deleted %d non-admin users.", res.Users)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		if err := leaderboard.New(client).Clear(ctx); err != nil {
			log.Fatalf("failed to clear leaderboard: %v", err)
		}
		log.Println("✅ Cleared leaderboard.")
	}

	log.Println("--- ✅ Database Reset Complete. Admin accounts remain. ---")
}
