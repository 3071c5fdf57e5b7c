// Package config handles repository discovery and configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the repository configuration stored in .reftrack/config.yml.
type Config struct {
	Capacity       int    `yaml:"capacity,omitempty"`        // Registry reference ceiling
	WrapColumn     int    `yaml:"wrap_column,omitempty"`     // Journal output column budget
	DOIBaseURL     string `yaml:"doi_base_url,omitempty"`    // Crossref API base URL
	CrossrefMailto string `yaml:"crossref_mailto,omitempty"` // Contact address for polite API use
}

const (
	ReftrackDir = ".reftrack"
	ConfigFile  = "config.yml"
	DBFile      = "refs.db"
)

// ErrNotRepository indicates no .reftrack directory was found.
var ErrNotRepository = errors.New("not in a reftrack repository")

// ReftrackPath returns the path to the .reftrack directory from a root path.
func ReftrackPath(root string) string {
	return filepath.Join(root, ReftrackDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ReftrackDir, ConfigFile)
}

// DBPath returns the path to refs.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, ReftrackDir, DBFile)
}

// IsRepository checks if the given path contains a reftrack repository.
func IsRepository(root string) bool {
	info, err := os.Stat(ReftrackPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a reftrack
// repository. Returns the repository root path or ErrNotRepository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}
		abs = parent
	}
}

// Init creates the .reftrack directory and writes the default config.
// It fails if the directory already exists.
func Init(root string) error {
	if IsRepository(root) {
		return fmt.Errorf("repository already initialized at %s", root)
	}
	if err := os.MkdirAll(ReftrackPath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", ReftrackDir, err)
	}
	return Save(root, Default())
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the repository config, returning defaults (not an error)
// when the file doesn't exist. Unset fields are filled with defaults.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to the repository's config file.
func Save(root string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = 1024
	}
	if c.WrapColumn <= 0 {
		c.WrapColumn = 71
	}
	if c.DOIBaseURL == "" {
		c.DOIBaseURL = "https://api.crossref.org"
	}
}
