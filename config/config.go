// Package config loads lit's repository configuration from
// .lit/config, a small YAML document.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultOriginBranch is the branch name "init" creates and "delete
// branch" refuses to remove.
const DefaultOriginBranch = "origin"

// DefaultLineMaxBytes is the line-length truncation bound lineio.ReadLines
// uses absent an override.
const DefaultLineMaxBytes = 256

// Config is lit's repository-level configuration.
type Config struct {
	Debug        bool   `yaml:"debug"`
	OriginBranch string `yaml:"origin_branch"`
	LineMaxBytes int    `yaml:"line_max_bytes"`
}

// Unmarshal parses a YAML config document, applying defaults first so
// that an empty or partial document still yields a usable Config.
func Unmarshal(content []byte) (*Config, error) {
	cfg := &Config{
		OriginBranch: DefaultOriginBranch,
		LineMaxBytes: DefaultLineMaxBytes,
	}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v. make sure to use 'single quotes' around strings with special characters", err.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile loads and parses the YAML config at filename.
func LoadConfigFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %v", filename, err.Error())
	}
	cfg, err := LoadConfigString(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load %v: %v", filename, err.Error())
	}
	return cfg, nil
}

// LoadConfigString parses a YAML config document already held in memory.
func LoadConfigString(content []byte) (*Config, error) {
	return Unmarshal(content)
}

func (c *Config) validate() error {
	if c.OriginBranch == "" {
		return fmt.Errorf("origin_branch must not be empty")
	}
	if c.LineMaxBytes <= 0 {
		return fmt.Errorf("line_max_bytes must be positive, got %d", c.LineMaxBytes)
	}
	return nil
}

// Marshal renders cfg back to its YAML form, for "init" to write a fresh
// .lit/config.
func Marshal(c *Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %v", err.Error())
	}
	return data, nil
}

// Default returns a Config populated with lit's built-in defaults.
func Default() *Config {
	return &Config{
		Debug:        false,
		OriginBranch: DefaultOriginBranch,
		LineMaxBytes: DefaultLineMaxBytes,
	}
}
