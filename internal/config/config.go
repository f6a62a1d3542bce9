package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// ActingUser is the default identity for commands; override with --as
	ActingUser string `toml:"acting_user"`

	// DefaultHourlyRate is the fallback when no rate record applies.
	// Zero means entry creation is rejected instead.
	DefaultHourlyRate float64 `toml:"default_hourly_rate"`

	// DatabasePath overrides the default sqlite location when set
	DatabasePath string `toml:"database_path"`
}

func DefaultConfig() *Config {
	return &Config{
		ActingUser:        "",
		DefaultHourlyRate: 0,
		DatabasePath:      "",
	}
}

func TimetrackDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".timetrack"), nil
}

func ConfigPath() (string, error) {
	dir, err := TimetrackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DatabaseFile returns the sqlite path, honoring the config override
func (c *Config) DatabaseFile() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := TimetrackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timetrack.db"), nil
}

func EnsureDirectories() error {
	dir, err := TimetrackDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Load reads the config file, creating it with defaults on first run
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}
