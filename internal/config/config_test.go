package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("got address %q, want :8080", cfg.Server.Address)
	}
	if cfg.Game.StartingLife != 20 {
		t.Errorf("got starting life %d, want 20", cfg.Game.StartingLife)
	}
	if cfg.Game.ChoiceTimeout != 60*time.Second {
		t.Errorf("got choice timeout %s, want 60s", cfg.Game.ChoiceTimeout)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  address: \":9999\"\ngame:\n  starting_life: 30\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Address != ":9999" {
		t.Errorf("got address %q, want :9999", cfg.Server.Address)
	}
	if cfg.Game.StartingLife != 30 {
		t.Errorf("got starting life %d, want 30", cfg.Game.StartingLife)
	}
	if cfg.Game.HandSize != 7 {
		t.Errorf("file values should not clobber unrelated defaults, got hand size %d", cfg.Game.HandSize)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Game.HandSize != 7 {
		t.Errorf("got hand size %d, want 7", cfg.Game.HandSize)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero life", func(c *Config) { c.Game.StartingLife = 0 }},
		{"negative hand", func(c *Config) { c.Game.HandSize = -1 }},
		{"zero drain", func(c *Config) { c.Game.MaxDrain = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
