// Package config loads the CLI/engine-shell knobs around the fill core.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the fill engine shell.
type Config struct {
	// LiveMode gates whether notifications are actually enqueued.
	LiveMode bool

	// StaleThreshold is the freshness-gate window. Default 1h.
	StaleThreshold time.Duration

	// Notification rate limiting.
	NotificationMaxPerWindow int
	NotificationWindow       time.Duration

	// MarketOnOpen submission blackout window, "HH:MM" each. It is compared
	// against the time of day of the order's CreatedTimeUtc, i.e. in UTC; no
	// conversion to the exchange's local time is applied.
	MarketOnOpenBlackoutStart string
	MarketOnOpenBlackoutEnd   string

	// Symbols to simulate fills for, used by the demo command only.
	Symbols []string

	// TelegramBotToken is the default bot credential used when a Telegram
	// notification is submitted without a per-call override.
	TelegramBotToken string
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	return &Config{
		LiveMode:                   getEnv("LIVE_MODE", "false") == "true",
		StaleThreshold:             getEnvDuration("STALE_THRESHOLD", time.Hour),
		NotificationMaxPerWindow:   getEnvInt("NOTIFICATION_MAX_PER_WINDOW", 30),
		NotificationWindow:         getEnvDuration("NOTIFICATION_WINDOW", time.Minute),
		MarketOnOpenBlackoutStart:  getEnv("MOO_BLACKOUT_START", "09:31"),
		MarketOnOpenBlackoutEnd:    getEnv("MOO_BLACKOUT_END", "16:00"),
		Symbols:                    splitAndTrim(getEnv("SYMBOLS", "SPY")),
		TelegramBotToken:           getEnv("TELEGRAM_BOT_TOKEN", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
