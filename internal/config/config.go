package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config carries every tunable the engine and front ends need. It is built
// once at startup and passed by value into constructors; nothing mutates it
// afterwards, so multiple engine instances can coexist in tests.
type Config struct {
	ScreenW int
	ScreenH int
	TPS     int // frame ticks per second

	TypeSpeed           float64 // revealed characters per second
	FadeOutSec          float64
	FadeInSec           float64
	BounceSec           float64
	BounceHeight        float64 // pixels
	CharHeightRatio     float64 // sprite height as a fraction of screen height
	CharBottomPad       int
	DialogueHeightRatio float64 // dialogue panel height as a fraction of screen height
	ChoiceItemH         int
	ChoiceItemGap       int
	WarnSeconds         float64 // how long a missing-sprite warning stays visible

	AssetsDir string
	StoryPath string

	Environment string
	LogLevel    slog.Level
}

// Default returns the configuration the shipped game uses. Tests build on
// this instead of reading the environment.
func Default() Config {
	return Config{
		ScreenW:             1280,
		ScreenH:             720,
		TPS:                 60,
		TypeSpeed:           40,
		FadeOutSec:          0.28,
		FadeInSec:           0.28,
		BounceSec:           0.22,
		BounceHeight:        14,
		CharHeightRatio:     0.82,
		CharBottomPad:       12,
		DialogueHeightRatio: 0.28,
		ChoiceItemH:         54,
		ChoiceItemGap:       10,
		WarnSeconds:         2.0,
		AssetsDir:           "assets",
		StoryPath:           "story/script.yaml",
		Environment:         "development",
		LogLevel:            slog.LevelInfo,
	}
}

// Load builds a Config from environment variables, falling back to Default
// for anything unset.
func Load() Config {
	cfg := Default()
	cfg.AssetsDir = getEnv("ASSETS_DIR", cfg.AssetsDir)
	cfg.StoryPath = getEnv("STORY_PATH", cfg.StoryPath)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	cfg.ScreenW = getEnvInt("SCREEN_W", cfg.ScreenW)
	cfg.ScreenH = getEnvInt("SCREEN_H", cfg.ScreenH)
	cfg.TPS = getEnvInt("TPS", cfg.TPS)
	cfg.TypeSpeed = getEnvFloat("TYPE_SPEED", cfg.TypeSpeed)
	return cfg
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
