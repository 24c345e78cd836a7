package main

import (
	"flag"
	"log"
	"os"

	"SolPulse/internal/di"
	"SolPulse/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Local overrides (API keys etc.) come from .env when present.
	_ = godotenv.Load()

	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s asset=%s live=%t", cfg.Environment, cfg.Provider.AssetID, cfg.Predictor.Live)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
