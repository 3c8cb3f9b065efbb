package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = 8000
	defaultTTLSeconds     = 60
	defaultTimeoutSeconds = 10
)

// Load reads, validates and defaults the application configuration. The
// returned config is an immutable startup input: nothing in the core
// mutates it after this call.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if err := checkUniqueCityIDs(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = defaultTTLSeconds
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func checkUniqueCityIDs(cfg *AppConfig) error {
	seen := map[string]bool{}
	for _, c := range cfg.Cities {
		if seen[c.ID] {
			return fmt.Errorf("validate config: duplicate city id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
