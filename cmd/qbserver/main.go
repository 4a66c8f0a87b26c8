package main

import (
	"flag"
	"log"

	"questionbank"
	"questionbank/backend"
)

func main() {
	var (
		envFile = flag.String("env", ".env", "Env file to load before reading the environment")
		verbose = flag.Bool("verbose", false, "Enable verbose debugging output")
	)
	flag.Parse()

	questionbank.SetVerbose(*verbose)

	cfg, err := backend.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := backend.OpenStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	var source backend.QuestionSource
	if cfg.AI.Enabled() {
		source = backend.NewQuestionMaker(cfg.AI)
		log.Printf("AI generation enabled (model %s)", cfg.AI.Model)
	} else {
		log.Printf("AI_API_KEY or AI_MODEL not set, AI generation disabled")
	}

	server := backend.NewServer(store, source)

	log.Printf("Starting server on port %s (database %s)", cfg.Port, cfg.DBPath)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
