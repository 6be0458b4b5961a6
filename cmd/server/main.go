package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/invoiceguard/internal/config"
	"github.com/agenthands/invoiceguard/internal/logger"
	"github.com/agenthands/invoiceguard/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
