package config

import (
	"os"
	"strings"
)

const (
	defaultDBPath = "./fusion.db"
	defaultPort   = "8080"
	defaultAppEnv = "dev"
)

// defaultAllowedOrigins covers local frontend development servers.
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
}

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port           string
	DBPath         string
	AppEnv         string
	AllowedOrigins []string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		Port:   os.Getenv("PORT"),
		DBPath: os.Getenv("DB_PATH"),
		AppEnv: os.Getenv("APP_ENV"),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}

	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaultAllowedOrigins
	}

	return cfg
}

// IsDev reports whether the app runs in development mode, where migrations and
// catalog seeding happen automatically at startup.
func (c Config) IsDev() bool {
	return c.AppEnv != "production"
}
