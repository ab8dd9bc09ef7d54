package main

import (
	"flag"
	"log"
	"os"

	"PDMScan/internal/di"
	"PDMScan/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("starting pdmscan env=%s provider=%s universe=%d kafka=%t scheduler=%t",
		cfg.Environment, cfg.Provider.Type, len(cfg.Universe.Symbols),
		cfg.Kafka.Enabled, cfg.Scheduler.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	// Blocks until SIGINT/SIGTERM.
	if err := app.Run(); err != nil {
		log.Printf("run: %v", err)
		os.Exit(1)
	}
}
