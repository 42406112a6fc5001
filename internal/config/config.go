// internal/config/config.go
//
// Server configuration: defaults, then an optional YAML file, then
// environment overrides, in that order. main loads .env via godotenv
// before this runs, so a .env file feeds the same overrides.

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         int    `yaml:"port"`
	DBPath       string `yaml:"db_path"`
	LogLevel     string `yaml:"log_level"`
	JWTSecret    string `yaml:"jwt_secret"`
	ClientOrigin string `yaml:"client_origin"`
	DailySalt    string `yaml:"daily_salt"`
}

func defaults() *Config {
	return &Config{
		Port:     8080,
		DBPath:   "./data/playlog.db",
		LogLevel: "info",
		// development fallbacks; override both in production
		JWTSecret: "dev-secret-change-me",
		DailySalt: "dev-daily-salt",
	}
}

// Load builds the configuration. path may be empty; a missing file is
// only an error when one was explicitly requested.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if b, err := os.ReadFile("playlog.yaml"); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse playlog.yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("CLIENT_ORIGIN"); v != "" {
		cfg.ClientOrigin = v
	}
	if v := os.Getenv("DAILY_SALT"); v != "" {
		cfg.DailySalt = v
	}
}
