package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
)

const (
	DefaultSteps     = 1000
	DefaultReference = "sun"
	DefaultDataDir   = ".nbody"
)

type Config struct {
	Steps         int    `yaml:"steps"`
	SampleEvery   int    `yaml:"sample_every"`
	Reference     string `yaml:"reference"`
	ValidateState bool   `yaml:"validate_state"`
	DataDir       string `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Steps:     DefaultSteps,
		Reference: DefaultReference,
		DataDir:   DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads the yaml file at path on top of cfg. Keys missing from the
// file keep their current values.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Reference = strings.ToLower(strings.TrimSpace(cfg.Reference))
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.SampleEvery < 0 {
		return fmt.Errorf("%w: sample_every must not be negative, got %d", dynamo.ErrInvalidConfig, c.SampleEvery)
	}
	if _, ok := physics.IndexOf(c.Reference); !ok {
		return fmt.Errorf("%w: unknown reference body %q", dynamo.ErrInvalidConfig, c.Reference)
	}
	return nil
}

// SimConfig converts the file configuration into runtime parameters. The
// time step is always the fixed physics.Dt.
func (c *Config) SimConfig() (dynamo.Config, error) {
	if err := c.Validate(); err != nil {
		return dynamo.Config{}, err
	}
	ref, _ := physics.IndexOf(c.Reference)

	sc := dynamo.DefaultConfig()
	sc.Steps = c.Steps
	sc.Dt = physics.Dt
	sc.SampleEvery = c.SampleEvery
	sc.Reference = ref
	sc.ValidateState = c.ValidateState
	return sc, nil
}
