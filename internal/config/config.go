// Package config defines the engine configuration, loaded from TOML with
// DYNASTY_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	League LeagueConfig `toml:"league"`
	Trade  TradeConfig  `toml:"trade"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `toml:"path"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port     int    `toml:"port"`
	AdminKey string `toml:"admin_key"` // Bearer token for POST endpoints; empty disables them
}

// LeagueConfig holds league-wide constants.
type LeagueConfig struct {
	SalaryCap float64 `toml:"salary_cap"` // Millions
	Seed      int64   `toml:"seed"`
}

// TradeConfig tunes the negotiation engine.
type TradeConfig struct {
	MaxRounds int `toml:"max_rounds"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:  StoreConfig{Path: "data/dynasty.db"},
		Server: ServerConfig{Port: 8080},
		League: LeagueConfig{SalaryCap: 255.0, Seed: 42},
		Trade:  TradeConfig{MaxRounds: 4},
	}
}

// Load reads a TOML file at path (missing file falls back to defaults),
// then applies DYNASTY_* environment overrides. A .env file in the working
// directory is picked up first.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Store.Path, "DYNASTY_STORE_PATH")
	setInt(&cfg.Server.Port, "DYNASTY_SERVER_PORT")
	setStr(&cfg.Server.AdminKey, "DYNASTY_ADMIN_KEY")
	setFloat(&cfg.League.SalaryCap, "DYNASTY_SALARY_CAP")
	setInt64(&cfg.League.Seed, "DYNASTY_SEED")
	setInt(&cfg.Trade.MaxRounds, "DYNASTY_TRADE_MAX_ROUNDS")
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("config: store path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Trade.MaxRounds < 1 {
		return fmt.Errorf("config: trade max_rounds must be at least 1")
	}
	return nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
