package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mph-llm-experiments/fika/internal/model"
)

// DirEnv overrides contacts_directory.
const DirEnv = "FIKA_DIR"

type Config struct {
	ContactsDirectory  string         `toml:"contacts_directory"`
	Storage            string         `toml:"storage"`
	DatabasePath       string         `toml:"database_path"`
	DefaultCadenceDays int            `toml:"default_cadence_days"`
	SnoozeDays         int            `toml:"snooze_days"`
	NudgeLimit         int            `toml:"nudge_limit"`
	LogDirectory       string         `toml:"log_directory"`
	Debug              bool           `toml:"debug"`
	Tiers              map[string]int `toml:"tiers"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no file exists.
func Default(homeDir string) *Config {
	return &Config{
		ContactsDirectory:  filepath.Join(homeDir, "Documents", "fika"),
		Storage:            "markdown",
		DatabasePath:       filepath.Join(homeDir, ".local", "share", "fika", "fika.db"),
		DefaultCadenceDays: model.DefaultCadenceDays,
		SnoozeDays:         1,
		NudgeLimit:         2,
		LogDirectory:       filepath.Join(homeDir, ".local", "state", "fika"),
	}
}

// Load reads configPath when given, else ~/.config/fika/config.toml, else
// the contacts_directory of a legacy apeople config, else defaults. Keys a
// file leaves out keep their defaults.
func Load(configPath string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	config := Default(homeDir)

	switch {
	case configPath != "":
		if err := decode(configPath, config); err != nil {
			return nil, err
		}

	default:
		newConfigPath := filepath.Join(homeDir, ".config", "fika", "config.toml")
		legacyConfigPath := filepath.Join(homeDir, ".config", "apeople", "config.toml")

		if _, err := os.Stat(newConfigPath); err == nil {
			if err := decode(newConfigPath, config); err != nil {
				return nil, err
			}
		} else if _, err := os.Stat(legacyConfigPath); err == nil {
			// only the directory carries over from the older tool
			var legacyConfig struct {
				ContactsDirectory string `toml:"contacts_directory"`
			}
			if _, err := toml.DecodeFile(legacyConfigPath, &legacyConfig); err != nil {
				return nil, fmt.Errorf("parse %s: %w", legacyConfigPath, err)
			}
			if legacyConfig.ContactsDirectory != "" {
				config.ContactsDirectory = legacyConfig.ContactsDirectory
			}
			config.Path = legacyConfigPath
		}
	}

	if dir := os.Getenv(DirEnv); dir != "" {
		config.ContactsDirectory = dir
	}

	expandTilde(config, homeDir)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(path string, config *Config) error {
	if _, err := toml.DecodeFile(path, config); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	config.Path = path
	return nil
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	switch c.Storage {
	case "markdown", "sqlite", "memory":
	case "":
		c.Storage = "markdown"
	default:
		return fmt.Errorf("storage must be markdown or sqlite, got %q", c.Storage)
	}
	if c.DefaultCadenceDays < 1 {
		c.DefaultCadenceDays = model.DefaultCadenceDays
	}
	if c.SnoozeDays < 1 {
		c.SnoozeDays = 1
	}
	if c.NudgeLimit < 0 {
		return fmt.Errorf("nudge_limit must not be negative, got %d", c.NudgeLimit)
	}
	defaults := model.DefaultTiers()
	for id, days := range c.Tiers {
		if _, ok := defaults.Lookup(model.TierID(id)); !ok {
			return fmt.Errorf("unknown tier %q in [tiers]", id)
		}
		if days < 1 {
			return fmt.Errorf("tier %q cadence must be at least 1 day, got %d", id, days)
		}
	}
	return nil
}

// TierDefinitions returns the default tiers with configured cadences applied.
func (c *Config) TierDefinitions() model.Tiers {
	return model.DefaultTiers().WithCadences(c.Tiers)
}

func expandTilde(config *Config, homeDir string) {
	for _, p := range []*string{&config.ContactsDirectory, &config.DatabasePath, &config.LogDirectory} {
		if strings.HasPrefix(*p, "~") {
			*p = filepath.Join(homeDir, (*p)[1:])
		}
	}
}
