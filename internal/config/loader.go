package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"slcli/pkg/logging"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/slcli"
	configFileName = "config.yaml"
)

// DefaultConfigPath returns ~/.config/slcli.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(home, userConfigDir), nil
}

// FilePath returns the config.yaml location inside configPath.
func FilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig reads config.yaml from configPath on top of the defaults, then
// applies SL_* environment overrides and validates the result. A missing
// file is not an error.
func LoadConfig(configPath string) (Config, error) {
	cfg := Default()
	path := FilePath(configPath)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", path)
	case err != nil:
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment override: %w", err)
	}

	if errs := Validate(cfg); errs.HasErrors() {
		return Config{}, fmt.Errorf("invalid configuration in %s: %w", path, errs)
	}
	return cfg, nil
}

// Save writes cfg to config.yaml in configPath. Credentials are written as
// given, so the file is created with mode 0600.
func Save(configPath string, cfg Config) error {
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(FilePath(configPath), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
