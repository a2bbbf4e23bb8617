package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Keys    KeyConfig     `yaml:"keys"`
	API     APIConfig     `yaml:"api"`
}

type StorageConfig struct {
	Dir           string `yaml:"dir"`
	Slot          string `yaml:"slot"`
	PassphraseEnv string `yaml:"passphraseEnv"`
}

type KeyConfig struct {
	Bits int `yaml:"bits"`
}

type APIConfig struct {
	BaseURL               string  `yaml:"baseURL"`
	RequestTimeoutSeconds int     `yaml:"requestTimeoutSeconds"`
	RequestsPerSecond     float64 `yaml:"requestsPerSecond"`
	Burst                 int     `yaml:"burst"`
}

func (c APIConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Dir:           "data/keys",
			Slot:          "default",
			PassphraseEnv: "ZPAY_STORE_PASSPHRASE",
		},
		Keys: KeyConfig{Bits: 2048},
		API: APIConfig{
			RequestTimeoutSeconds: 30,
			RequestsPerSecond:     5,
			Burst:                 10,
		},
	}
}

// LoadFromPath reads an optional yaml file, merges it over the defaults and
// applies env overrides last. A missing or unparsable file falls back to
// defaults plus env.
func LoadFromPath(configPath string) Config {
	cfg := DefaultConfig()

	candidates := make([]string, 0, 2)
	if configPath != "" {
		candidates = append(candidates, configPath)
	} else {
		candidates = append(candidates, "configs/config.yaml")
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var parsed Config
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		merged := cfg
		Merge(&merged, parsed)
		ApplyEnvOverrides(&merged)
		return merged
	}

	ApplyEnvOverrides(&cfg)
	return cfg
}

func Merge(dst *Config, src Config) {
	if src.Storage.Dir != "" {
		dst.Storage.Dir = src.Storage.Dir
	}
	if src.Storage.Slot != "" {
		dst.Storage.Slot = src.Storage.Slot
	}
	if src.Storage.PassphraseEnv != "" {
		dst.Storage.PassphraseEnv = src.Storage.PassphraseEnv
	}
	if src.Keys.Bits != 0 {
		dst.Keys.Bits = src.Keys.Bits
	}
	if src.API.BaseURL != "" {
		dst.API.BaseURL = src.API.BaseURL
	}
	if src.API.RequestTimeoutSeconds != 0 {
		dst.API.RequestTimeoutSeconds = src.API.RequestTimeoutSeconds
	}
	if src.API.RequestsPerSecond != 0 {
		dst.API.RequestsPerSecond = src.API.RequestsPerSecond
	}
	if src.API.Burst != 0 {
		dst.API.Burst = src.API.Burst
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ZPAY_STORAGE_DIR")); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("ZPAY_KEY_SLOT")); v != "" {
		cfg.Storage.Slot = v
	}
	if v := strings.TrimSpace(os.Getenv("ZPAY_API_BASE_URL")); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ZPAY_KEY_BITS")); v != "" {
		if bits, err := strconv.Atoi(v); err == nil && bits > 0 {
			cfg.Keys.Bits = bits
		}
	}
	if v := strings.TrimSpace(os.Getenv("ZPAY_API_RPS")); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps > 0 {
			cfg.API.RequestsPerSecond = rps
		}
	}
}

// Passphrase resolves the keystore passphrase from the configured env var.
func (c Config) Passphrase() string {
	return strings.TrimSpace(os.Getenv(c.Storage.PassphraseEnv))
}
