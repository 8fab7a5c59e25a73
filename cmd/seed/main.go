// Command seed fills a development database with generated users, groups, posts and follows.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/seed"
)

func main() {
	preset := flag.String("preset", "default", "Built-in preset name or path to a YAML preset")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "Random seed for generated content")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed demo token")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	p, err := seed.LoadPreset(*preset)
	if err != nil {
		log.Fatalf("Failed to load preset: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, *seedValue)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx, p)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Applied preset %q. All users have the password: %s", p.Name, p.Password)
	if len(res.Users) > 0 {
		first := res.Users[0]
		token, err := middleware.IssueToken(cfg.JWTSecret, first.ID, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue demo token: %v", err)
		}
		fmt.Printf("Demo user: %s\nToken: %s\n", first.Username, token)
	}
}
