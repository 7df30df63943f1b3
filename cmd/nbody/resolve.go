package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/dynamo"
)

const envPrefix = "nbody"

// newViper binds the command's flags and the NBODY_* environment. Flag
// names map to variables by upper-casing and replacing '-' with '_', so
// --sample-every is NBODY_SAMPLE_EVERY.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := v.BindEnv("steps"); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveConfig layers, lowest first: defaults, preset, config file,
// environment and flags, then the positional step count.
func resolveConfig(v *viper.Viper, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if name := v.GetString("preset"); name != "" {
		p, err := config.LookupPreset(name)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if path := v.GetString("config"); path != "" {
		if err := config.Overlay(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if v.IsSet("steps") {
		cfg.Steps = v.GetInt("steps")
	}
	if v.IsSet("sample-every") {
		cfg.SampleEvery = v.GetInt("sample-every")
	}
	if v.IsSet("reference") {
		cfg.Reference = strings.ToLower(v.GetString("reference"))
	}
	if v.IsSet("validate") {
		cfg.ValidateState = v.GetBool("validate")
	}
	if v.IsSet("data") {
		cfg.DataDir = v.GetString("data")
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: step count %q is not an integer", dynamo.ErrInvalidConfig, args[0])
		}
		cfg.Steps = n
	}

	return cfg, cfg.Validate()
}

// dataDir resolves --data / NBODY_DATA for the commands that only read runs.
func dataDir(cmd *cobra.Command) (string, error) {
	v, err := newViper(cmd)
	if err != nil {
		return "", err
	}
	if dir := v.GetString("data"); dir != "" {
		return dir, nil
	}
	return config.DefaultDataDir, nil
}
