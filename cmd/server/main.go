package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/marcusziade/satvid-go/api"
	"github.com/marcusziade/satvid-go/config"
	"github.com/marcusziade/satvid-go/internal/logger"
	"github.com/marcusziade/satvid-go/internal/video"
)

func main() {
	// Load .env if present; real env vars win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log := logger.NewFromString(cfg.LogLevel)
	log.Info("Starting Satellite Image Processing Development Server")
	log.Info("URL: %s", cfg.PublicBaseURL)
	log.Info("Auth Token: %s", cfg.AuthToken)
	log.Info("Temp directory: %s", cfg.TempDir)

	// Wire up the synthesis pipeline
	store := video.NewStore(cfg.TempDir)
	synth := video.NewSynthesizer(cfg.FFmpegPath, log)
	prober := video.NewProber(cfg.FFprobePath)

	// Create API server
	server := api.New(cfg, synth, prober, store, log)

	// Handle graceful shutdown
	go handleSignals(log)

	// Start server
	log.Info("Server listening on %s", cfg.ListenAddr())
	if err := server.Start(cfg.ListenAddr()); err != nil {
		log.Error("Server error: %v", err)
		os.Exit(1)
	}
}

// handleSignals handles OS signals for graceful shutdown
func handleSignals(log *logger.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("Received signal %v, shutting down...", sig)

	os.Exit(0)
}
