package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"picqer/internal/logging"
)

const DefaultSaveDir = "~/Pictures/Screenshots"

// DefaultScreenDelay is the settle time before a screen grab
const DefaultScreenDelay = 500 * time.Millisecond

const (
	EnvDir        = "PICQER_DIR"
	EnvConfigFile = "PICQER_CONFIG"
)

// Config is the user configuration file
type Config struct {
	SaveDir string         `yaml:"save_dir,omitempty"`
	Log     logging.Config `yaml:"log,omitempty"`
	Capture CaptureConfig  `yaml:"capture,omitempty"`
	Catalog CatalogConfig  `yaml:"catalog,omitempty"`
}

// CaptureConfig overrides the external tools used for capture. Empty
// commands select a platform default.
type CaptureConfig struct {
	ClipboardCommand string         `yaml:"clipboard_command,omitempty"`
	ScreenCommand    string         `yaml:"screen_command,omitempty"`
	ScreenDelay      *time.Duration `yaml:"screen_delay,omitempty"`
}

// CatalogConfig controls the cross-directory record catalog
type CatalogConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Path returns the config file location: PICQER_CONFIG, or config.yaml
// under the XDG config directory.
func Path() string {
	if env := strings.TrimSpace(os.Getenv(EnvConfigFile)); env != "" {
		return ExpandUser(env)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "picqer", "config.yaml")
}

// Load reads the config file at path. A missing file yields an empty config.
// Environment overrides and ~ expansion are applied either way.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.SaveDir = ExpandUser(cfg.SaveDir)
	if cfg.Log.File != nil {
		expanded := ExpandUser(*cfg.Log.File)
		cfg.Log.File = &expanded
	}
	cfg.Catalog.Path = ExpandUser(cfg.Catalog.Path)
	return cfg, nil
}

func (c *Config) applyEnv() {
	if env := strings.TrimSpace(os.Getenv(EnvDir)); env != "" {
		c.SaveDir = env
	}
}

// SaveDirectory returns the configured save directory or the default
func (c *Config) SaveDirectory() string {
	if c.SaveDir != "" {
		return c.SaveDir
	}
	return ExpandUser(DefaultSaveDir)
}

// ScreenDelay returns the configured settle delay or the default
func (c *Config) ScreenDelay() time.Duration {
	if c.Capture.ScreenDelay != nil && *c.Capture.ScreenDelay >= 0 {
		return *c.Capture.ScreenDelay
	}
	return DefaultScreenDelay
}

// CatalogEnabled reports whether the record catalog should be opened
func (c *Config) CatalogEnabled() bool {
	return c.Catalog.Enabled == nil || *c.Catalog.Enabled
}

// ExpandUser expands a leading ~ to the current user's home directory
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
