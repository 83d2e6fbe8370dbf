package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Expected version 1, got %d", cfg.Version)
	}
	if cfg.Language.SourceExtension != ".sw" {
		t.Errorf("Expected .sw, got %s", cfg.Language.SourceExtension)
	}
	if cfg.Language.ManifestFileName != "Forc.toml" {
		t.Errorf("Expected Forc.toml, got %s", cfg.Language.ManifestFileName)
	}
	if cfg.Language.LockFileName != "Forc.lock" {
		t.Errorf("Expected Forc.lock, got %s", cfg.Language.LockFileName)
	}
	if cfg.Watcher.DebounceMs != 500 {
		t.Errorf("Expected 500ms debounce, got %d", cfg.Watcher.DebounceMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config does not validate: %v", err)
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Language.ManifestFileName != "Forc.toml" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Watcher.DebounceMs = 250
	cfg.Language.SourceExtension = ".rs"
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Watcher.DebounceMs != 250 {
		t.Errorf("Expected 250ms debounce, got %d", loaded.Watcher.DebounceMs)
	}
	if loaded.Language.SourceExtension != ".rs" {
		t.Errorf("Expected .rs, got %s", loaded.Language.SourceExtension)
	}
	// Unset fields keep their defaults.
	if loaded.Language.ManifestFileName != "Forc.toml" {
		t.Errorf("Expected Forc.toml, got %s", loaded.Language.ManifestFileName)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"watcher": {"debounceMs": 100}}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Watcher.DebounceMs != 100 {
		t.Errorf("Expected 100ms debounce, got %d", cfg.Watcher.DebounceMs)
	}
	if cfg.Language.SourceExtension != ".sw" {
		t.Errorf("Expected default extension, got %s", cfg.Language.SourceExtension)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unsupported version", func(c *Config) { c.Version = 2 }},
		{"extension without dot", func(c *Config) { c.Language.SourceExtension = "sw" }},
		{"empty extension", func(c *Config) { c.Language.SourceExtension = "" }},
		{"empty manifest name", func(c *Config) { c.Language.ManifestFileName = "" }},
		{"zero debounce", func(c *Config) { c.Watcher.DebounceMs = 0 }},
		{"negative debounce", func(c *Config) { c.Watcher.DebounceMs = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
