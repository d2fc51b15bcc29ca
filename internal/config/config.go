// Package config loads the optional .mapskey.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/szaher/mapskey/internal/bundle"
	"github.com/szaher/mapskey/internal/secrets"
)

// DefaultFile is looked up in the working directory when --config is not set.
const DefaultFile = ".mapskey.yaml"

// Config holds resolver and CLI settings.
type Config struct {
	Variable     string `yaml:"variable"`
	Placeholder  string `yaml:"placeholder"`
	DefinesField string `yaml:"defines_field"`
	Strict       bool   `yaml:"strict"`

	// InfoPlist and XCConfig locate the build metadata carrying the blob.
	InfoPlist string `yaml:"info_plist,omitempty"`
	XCConfig  string `yaml:"xcconfig,omitempty"`

	MetricsFile string `yaml:"metrics_file,omitempty"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Variable:     secrets.DefaultVariable,
		Placeholder:  secrets.DefaultPlaceholder,
		DefinesField: bundle.DefinesField,
		LogLevel:     "info",
		LogFormat:    "json",
	}
}

// Load reads path. When explicit is false a missing file yields the defaults.
func Load(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.Variable == "" {
		return fmt.Errorf("config: variable is required")
	}
	if c.Placeholder == "" {
		return fmt.Errorf("config: placeholder is required")
	}
	if c.DefinesField == "" {
		return fmt.Errorf("config: defines_field is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q (expected debug|info|warn|error)", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: unknown log_format %q (expected json|text)", c.LogFormat)
	}
	return nil
}

// Resolver builds a key resolver from the settings.
func (c *Config) Resolver() *secrets.KeyResolver {
	return &secrets.KeyResolver{
		Variable:    c.Variable,
		Placeholder: c.Placeholder,
		Strict:      c.Strict,
	}
}
