package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != "data/dynasty.db" || cfg.Server.Port != 8080 {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}
	if cfg.League.SalaryCap != 255.0 || cfg.League.Seed != 42 || cfg.Trade.MaxRounds != 4 {
		t.Fatalf("cfg=%+v want defaults", cfg)
	}
}

func TestLoad_MissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must fall back to defaults: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("port=%d want default", cfg.Server.Port)
	}
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmsim.toml")
	doc := `
[store]
path = "/tmp/league.db"

[server]
port = 9090
admin_key = "hunter2"

[trade]
max_rounds = 6
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != "/tmp/league.db" || cfg.Server.Port != 9090 || cfg.Server.AdminKey != "hunter2" {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Trade.MaxRounds != 6 {
		t.Fatalf("max_rounds=%d want 6", cfg.Trade.MaxRounds)
	}
	// Sections absent from the file keep their defaults.
	if cfg.League.SalaryCap != 255.0 {
		t.Fatalf("salary_cap=%v want default", cfg.League.SalaryCap)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DYNASTY_STORE_PATH", ":memory:")
	t.Setenv("DYNASTY_SERVER_PORT", "7070")
	t.Setenv("DYNASTY_SEED", "99")
	t.Setenv("DYNASTY_SALARY_CAP", "300.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != ":memory:" || cfg.Server.Port != 7070 {
		t.Fatalf("cfg=%+v want env overrides applied", cfg)
	}
	if cfg.League.Seed != 99 || cfg.League.SalaryCap != 300.5 {
		t.Fatalf("cfg=%+v want env overrides applied", cfg)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gmsim.toml")
	if err := os.WriteFile(path, []byte("[server]\nport = 9090\n"), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}
	t.Setenv("DYNASTY_SERVER_PORT", "6060")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Fatalf("port=%d want env to win", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port overflow", func(c *Config) { c.Server.Port = 70000 }},
		{"no rounds", func(c *Config) { c.Trade.MaxRounds = 0 }},
	}
	for _, tc := range cases {
		cfg := Defaults()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: want validation error", tc.name)
		}
	}
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
