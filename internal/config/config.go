package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds everything the process reads from its environment.
type Config struct {
	Port           string
	Env            string
	GatewayURL     string
	GatewayAnonKey string
	PageSize       int
	SessionCookie  string
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. The gateway base URL and
// public API key are mandatory; without them no request can be made, so
// startup stops right here.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		GatewayURL:     os.Getenv("GATEWAY_URL"),
		GatewayAnonKey: os.Getenv("GATEWAY_ANON_KEY"),
		PageSize:       getEnvInt("PAGE_SIZE", 10),
		SessionCookie:  getEnv("SESSION_COOKIE", "blogfront_session"),
		RequestTimeout: 10 * time.Second,
	}

	if cfg.GatewayURL == "" || cfg.GatewayAnonKey == "" {
		slog.Error("GATEWAY_URL and GATEWAY_ANON_KEY must be set")
		os.Exit(1)
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric environment value", "key", key, "value", v)
		return fallback
	}
	return n
}
