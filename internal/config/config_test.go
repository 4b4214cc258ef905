package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderNone {
		t.Errorf("expected default provider none, got %q", cfg.Provider)
	}
	if cfg.Store != StoreFile {
		t.Errorf("expected default store %q, got %q", StoreFile, cfg.Store)
	}
	if cfg.DataDir != ".blockdex" {
		t.Errorf("expected default data_dir .blockdex, got %q", cfg.DataDir)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("expected default max_concurrency 4, got %d", cfg.MaxConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.blockdex.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Store = StoreSQLite
	original.Include = []string{"**/*.go", "**/*.md"}
	original.MaxConcurrency = 8

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Store != original.Store {
		t.Errorf("store: got %q, want %q", loaded.Store, original.Store)
	}
	if len(loaded.Include) != 2 {
		t.Errorf("include: got %v", loaded.Include)
	}
	if loaded.MaxConcurrency != 8 {
		t.Errorf("max_concurrency: got %d, want 8", loaded.MaxConcurrency)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderNone || cfg.Store != StoreFile {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BLOCKDEX_PROVIDER", "ollama")
	t.Setenv("BLOCKDEX_MAX_CONCURRENCY", "2")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider override: got %q, want ollama", cfg.Provider)
	}
	if cfg.MaxConcurrency != 2 {
		t.Errorf("concurrency override: got %d, want 2", cfg.MaxConcurrency)
	}
	if cfg.Model != "llama3" {
		t.Errorf("model should default per provider: got %q", cfg.Model)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad provider", func(c *Config) { c.Provider = "carrier-pigeon" }, false},
		{"provider without model", func(c *Config) { c.Provider = ProviderOpenAI; c.Model = "" }, false},
		{"bad store", func(c *Config) { c.Store = "cassette" }, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, false},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }, false},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		err := cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}
