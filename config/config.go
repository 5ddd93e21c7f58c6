package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultToken is the development auth token used when AUTHORIZATION_TOKEN
// is not set.
const DefaultToken = "dev_token_123"

// Config holds the application configuration
type Config struct {
	// Shared secret compared against each request's bearer token
	AuthToken string
	// Listen port
	Port int
	// Directory for uploaded images and generated videos
	TempDir string
	// Base URL prepended to generated video paths in responses
	PublicBaseURL string
	// Simulated processing delay before synthesis starts
	ProcessingDelay time.Duration
	// Paths to the ffmpeg and ffprobe binaries
	FFmpegPath  string
	FFprobePath string
	// Log level (debug, info, warn, error)
	LogLevel string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	token := os.Getenv("AUTHORIZATION_TOKEN")
	if token == "" {
		token = DefaultToken
	}

	port := 3000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value: %w", err)
		}
	}

	tempDir := os.Getenv("TEMP_DIR")
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	delay := time.Second
	if delayStr := os.Getenv("PROCESSING_DELAY"); delayStr != "" {
		var err error
		delay, err = time.ParseDuration(delayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PROCESSING_DELAY value: %w", err)
		}
	}

	ffmpegPath := os.Getenv("FFMPEG_PATH")
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	ffprobePath := os.Getenv("FFPROBE_PATH")
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AuthToken:       token,
		Port:            port,
		TempDir:         tempDir,
		PublicBaseURL:   baseURL,
		ProcessingDelay: delay,
		FFmpegPath:      ffmpegPath,
		FFprobePath:     ffprobePath,
		LogLevel:        logLevel,
	}, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AuthToken == "" {
		return fmt.Errorf("authorization token is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.TempDir == "" {
		return fmt.Errorf("temp directory is required")
	}

	if c.ProcessingDelay < 0 {
		return fmt.Errorf("processing delay cannot be negative")
	}

	return nil
}

// ListenAddr returns the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
