// Package config holds the settings shared by the merge and dedup commands.
//
// Values come from built-in defaults, then an optional YAML file, then the
// command line (positional directories and flags), each layer overriding the last.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go-csv-merge/internal/model"
	"go-csv-merge/pkg/utils"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SourceA   string `yaml:"sourceA"`
	SourceB   string `yaml:"sourceB"`
	OutputDir string `yaml:"outputDir"`
	KeyColumn string `yaml:"keyColumn"`
	Extension string `yaml:"extension"`
	HistoryDB string `yaml:"historyDB"` // empty disables run history
	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		KeyColumn: model.DefaultKeyColumn,
		Extension: model.DefaultExtension,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.KeyColumn = strings.TrimSpace(c.KeyColumn)
	if c.KeyColumn == "" {
		c.KeyColumn = model.DefaultKeyColumn
	}
	c.Extension = utils.NormalizeExtension(c.Extension)
	if c.Extension == "" {
		c.Extension = model.DefaultExtension
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// ValidateMerge checks the settings the merge stage needs
func (c *Config) ValidateMerge() error {
	c.normalize()
	var errs []error
	if c.SourceA == "" {
		errs = append(errs, errors.New("first source directory is required"))
	}
	if c.SourceB == "" {
		errs = append(errs, errors.New("second source directory is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	return errors.Join(errs...)
}

// ValidateDedup checks the settings the dedup stage needs
func (c *Config) ValidateDedup() error {
	c.normalize()
	if c.OutputDir == "" {
		return errors.New("directory to deduplicate is required")
	}
	return nil
}
