package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	"demonlist/internal/config"
	"demonlist/internal/leaderboard"
	"demonlist/internal/seed"
	"demonlist/internal/store"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	fixtures := flag.String("fixtures", "", "YAML fixtures file (defaults to the built-in set)")
	fake := flag.Int("fake", 0, "number of generated players to add")
	target := flag.String("target", "sql", "where to seed: sql or mongo")
	flag.Parse()

	log.Println("Starting database seeder...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed loading configuration: %v", err)
	}
	logger := cfg.Logger()

	f, err := loadFixtures(*fixtures)
	if err != nil {
		log.Fatalf("failed loading fixtures: %v", err)
	}
	if *fake > 0 {
		f.Users = append(f.Users, seed.FakeUsers(*fake, rand.New(rand.NewSource(time.Now().UnixNano())))...)
	}

	ctx := context.Background()

	var res seed.Result
	switch *target {
	case "sql":
		if err := cfg.RequireDB(); err != nil {
			log.Fatal(err)
		}
		db, err := store.Open(ctx, cfg.DBDriver, cfg.DBSource, logger)
		if err != nil {
			log.Fatalf("failed opening connection to %s: %v", cfg.DBDriver, err)
		}
		defer db.Close()

		res, err = seed.New(db, 0, logger).Apply(ctx, f)
		if err != nil {
			log.Fatalf("failed seeding database: %v", err)
		}

		if cfg.RedisAddr != "" {
			rebuildLeaderboard(ctx, cfg.RedisAddr, db)
		}

	case "mongo":
		if cfg.MongoURI == "" {
			log.Fatal("MONGO_URI environment variable not set")
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed connecting to mongo: %v", err)
		}
		defer client.Disconnect(ctx)

		res, err = seed.New(nil, 0, logger).ApplyMongo(ctx, client.Database(cfg.MongoDatabase), f)
		if err != nil {
			log.Fatalf("failed seeding mongo: %v", err)
		}

	default:
		log.Fatalf("unknown target %q", *target)
	}

	if res == (seed.Result{}) {
		log.Println("Fixtures already present. Seeder finished.")
		return
	}
	log.Printf("Seeded %d users, %d levels and %d records.", res.Users, res.Levels, res.Records)
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.Default()
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return seed.Load(file)
}

func rebuildLeaderboard(ctx context.Context, addr string, db *store.DB) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	users, err := db.ListUsers(ctx)
	if err != nil {
		log.Fatalf("failed listing users: %v", err)
	}
	if err := leaderboard.New(client).Rebuild(ctx, users); err != nil {
		log.Fatalf("failed rebuilding leaderboard: %v", err)
	}
	log.Printf("Leaderboard rebuilt from %d users.", len(users))
}
