package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// GeneratorConfig holds runtime settings for dataset generation.
type GeneratorConfig struct {
	NumRuns    int
	WindowSize int64
	BaseSeed   int64
	OutDir     string
	LogLevel   string
}

// LoadGenerator reads generator settings from environment variables,
// applies defaults, and validates values. A .env file in the working
// directory is folded in first when present.
func LoadGenerator() (*GeneratorConfig, error) {
	_ = godotenv.Load()

	numRuns, err := getInt("NUM_RUNS", 20)
	if err != nil {
		return nil, fmt.Errorf("invalid NUM_RUNS: %w", err)
	}
	if numRuns <= 0 {
		return nil, fmt.Errorf("invalid NUM_RUNS: must be positive, got %d", numRuns)
	}

	windowSize, err := getInt("WINDOW_SIZE", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid WINDOW_SIZE: %w", err)
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("invalid WINDOW_SIZE: must be positive, got %d", windowSize)
	}

	baseSeed, err := getInt("BASE_SEED", 42)
	if err != nil {
		return nil, fmt.Errorf("invalid BASE_SEED: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	return &GeneratorConfig{
		NumRuns:    numRuns,
		WindowSize: int64(windowSize),
		BaseSeed:   int64(baseSeed),
		OutDir:     getStr("OUT_DIR", "data"),
		LogLevel:   logLevel,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
