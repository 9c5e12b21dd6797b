package config

import (
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("listen addr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Watch.Debounce != "300ms" {
		t.Errorf("debounce = %q, want 300ms", cfg.Watch.Debounce)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Server.ListenAddr = ":9999"
	cfg.Cards.DBPath = "/tmp/cards.db"
	cfg.Cards.Offline = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.ListenAddr != ":9999" {
		t.Errorf("listen addr = %q, want :9999", loaded.Server.ListenAddr)
	}
	if !loaded.Cards.Offline {
		t.Error("offline flag did not round-trip")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	cfg.Server.ListenAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("empty listen address should fail validation")
	}

	cfg = DefaultConfig()
	cfg.Watch.Debounce = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("unparseable debounce should fail validation")
	}
}

func TestCardDBPathDefaultsToConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	path, err := cfg.CardDBPath()
	if err != nil {
		t.Fatalf("CardDBPath() error = %v", err)
	}
	if want := filepath.Join(home, ".deckimport", "cards.db"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	cfg.Cards.DBPath = "/custom/cards.db"
	path, err = cfg.CardDBPath()
	if err != nil {
		t.Fatalf("CardDBPath() error = %v", err)
	}
	if path != "/custom/cards.db" {
		t.Errorf("path = %q, want the explicit setting", path)
	}
}
