package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/2beens/fitgam/internal"
	"github.com/2beens/fitgam/internal/config"

	"github.com/joho/godotenv"
)

// dumps every store collection as one JSON object, keyed by the store key
func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	outPath := flag.String("out", "", "output file path (empty for stdout)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Printf("load config: %s\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	s, closeStore, err := internal.OpenStore(ctx, cfg, os.Getenv("FITGAM_REDIS_PASS"))
	if err != nil {
		fmt.Printf("open store: %s\n", err)
		os.Exit(1)
	}
	defer closeStore()

	dumpJSON, err := json.MarshalIndent(s.Dump(ctx), "", "  ")
	if err != nil {
		fmt.Printf("marshal dump: %s\n", err)
		return
	}

	if *outPath == "" {
		fmt.Println(string(dumpJSON))
		return
	}
	if err := os.WriteFile(*outPath, dumpJSON, 0o644); err != nil {
		fmt.Printf("write dump file %s: %s\n", *outPath, err)
		return
	}
	fmt.Printf("store dumped to %s\n", *outPath)
}
