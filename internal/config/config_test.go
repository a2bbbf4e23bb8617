package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromPathDefaultsWhenMissing(t *testing.T) {
	cfg := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg.Storage.Slot != "default" || cfg.Keys.Bits != 2048 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromPathMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "storage:\n  slot: wallet\napi:\n  baseURL: https://api.example.test\n  requestTimeoutSeconds: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg := LoadFromPath(path)
	if cfg.Storage.Slot != "wallet" {
		t.Fatalf("slot not merged: %+v", cfg.Storage)
	}
	if cfg.API.BaseURL != "https://api.example.test" || cfg.API.RequestTimeout() != 5*time.Second {
		t.Fatalf("api not merged: %+v", cfg.API)
	}
	if cfg.Keys.Bits != 2048 {
		t.Fatalf("defaults lost in merge: %+v", cfg.Keys)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  slot: wallet\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ZPAY_KEY_SLOT", "corp")
	cfg := LoadFromPath(path)
	if cfg.Storage.Slot != "corp" {
		t.Fatalf("env override lost: %+v", cfg.Storage)
	}
}

func TestPassphraseFromEnv(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv(cfg.Storage.PassphraseEnv, " secret ")
	if got := cfg.Passphrase(); got != "secret" {
		t.Fatalf("unexpected passphrase: %q", got)
	}
}
