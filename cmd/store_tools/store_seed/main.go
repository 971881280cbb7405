package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitgam/internal"
	"github.com/2beens/fitgam/internal/auth"
	"github.com/2beens/fitgam/internal/config"
	"github.com/2beens/fitgam/internal/store"

	"github.com/joho/godotenv"
)

// seeds the demo user, challenges and rewards into the empty collections of the configured store
func main() {
	fmt.Println("starting store seed ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Printf("load config: %s\n", err)
		os.Exit(1)
	}

	var demoPasswordHash string
	if demoPassword := os.Getenv("FITGAM_DEMO_PASSWORD"); demoPassword != "" {
		demoPasswordHash, err = auth.BcryptVerifier{Cost: cfg.BcryptCost}.Hash(demoPassword)
		if err != nil {
			fmt.Printf("hash demo password: %s\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println("FITGAM_DEMO_PASSWORD not set, the demo user will have no password")
	}

	ctx := context.Background()
	s, closeStore, err := internal.OpenStore(ctx, cfg, os.Getenv("FITGAM_REDIS_PASS"))
	if err != nil {
		fmt.Printf("open store: %s\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if err := s.Seed(ctx, store.SeedParams{
		Now:              time.Now(),
		DemoPasswordHash: demoPasswordHash,
	}); err != nil {
		fmt.Printf("store seed failed: %s\n", err)
		return
	}

	fmt.Println("\nstore seed completed")
}
