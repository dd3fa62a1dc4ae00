package config

import (
	"os"
	"strconv"
)

type Config struct {
	Dir         string
	Backend     string
	SQLitePath  string
	DatabaseURL string
	NatsURL     string
	NatsToken   string
	Port        int
	APIToken    string
	LogLevel    string
}

func Load() Config {
	return Config{
		Dir:         envStr("COACH_DIR", "."),
		Backend:     envStr("COACH_BACKEND", "file"),
		SQLitePath:  envStr("COACH_SQLITE_PATH", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		NatsToken:   envStr("NATS_TOKEN", ""),
		Port:        envInt("COACH_PORT", 8760),
		APIToken:    envStr("COACH_API_TOKEN", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
	}
}

// EventsEnabled reports whether a NATS server was configured.
func (c Config) EventsEnabled() bool {
	return c.NatsURL != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
