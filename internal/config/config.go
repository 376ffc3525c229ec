package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for optional client settings
const (
	DefaultThroughputTargetGbps = 10.0
	DefaultPartSize             = 8 * 1024 * 1024
	DefaultMaxKeys              = 1000
)

// Config holds the immutable client configuration. A Config is fully
// described by its five fields; Tuple and FromTuple round-trip it with
// no hidden state, so a handle can be rebuilt on the far side of a
// serialization or process boundary.
type Config struct {
	Region               string  `yaml:"region" json:"region"`
	ThroughputTargetGbps float64 `yaml:"throughput_target_gbps" json:"throughput_target_gbps"`
	PartSize             int     `yaml:"part_size" json:"part_size"`
	Profile              string  `yaml:"profile,omitempty" json:"profile,omitempty"`
	Anonymous            bool    `yaml:"anonymous" json:"anonymous"`
}

// Tuple is the flat, serializable form of a Config
type Tuple struct {
	Region               string  `yaml:"region" json:"region"`
	ThroughputTargetGbps float64 `yaml:"throughput_target_gbps" json:"throughput_target_gbps"`
	PartSize             int     `yaml:"part_size" json:"part_size"`
	Profile              string  `yaml:"profile,omitempty" json:"profile,omitempty"`
	Anonymous            bool    `yaml:"anonymous" json:"anonymous"`
}

// DefaultConfig returns a configuration with default optional settings.
// Region has no default and must be set before use.
func DefaultConfig() *Config {
	return &Config{
		ThroughputTargetGbps: DefaultThroughputTargetGbps,
		PartSize:             DefaultPartSize,
	}
}

// New builds a validated Config for the given region
func New(region string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Region = region
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, filling defaults for zero-valued
// optional fields and rejecting invalid ones
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.ThroughputTargetGbps == 0 {
		c.ThroughputTargetGbps = DefaultThroughputTargetGbps
	}
	if c.ThroughputTargetGbps <= 0 {
		return fmt.Errorf("throughput_target_gbps must be positive, got %v", c.ThroughputTargetGbps)
	}
	if c.PartSize == 0 {
		c.PartSize = DefaultPartSize
	}
	if c.PartSize <= 0 {
		return fmt.Errorf("part_size must be positive, got %d", c.PartSize)
	}
	return nil
}

// Tuple returns the flat form of the configuration
func (c *Config) Tuple() Tuple {
	return Tuple{
		Region:               c.Region,
		ThroughputTargetGbps: c.ThroughputTargetGbps,
		PartSize:             c.PartSize,
		Profile:              c.Profile,
		Anonymous:            c.Anonymous,
	}
}

// FromTuple reconstructs a Config from its flat form
func FromTuple(t Tuple) (*Config, error) {
	cfg := &Config{
		Region:               t.Region,
		ThroughputTargetGbps: t.ThroughputTargetGbps,
		PartSize:             t.PartSize,
		Profile:              t.Profile,
		Anonymous:            t.Anonymous,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from a YAML or JSON file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	ext := filepath.Ext(path)
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		// Try YAML first, then JSON
		if err = yaml.Unmarshal(data, cfg); err != nil {
			err = json.Unmarshal(data, cfg)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a file
func (c *Config) Save(path string) error {
	var data []byte
	var err error

	ext := filepath.Ext(path)
	switch ext {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	default:
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
