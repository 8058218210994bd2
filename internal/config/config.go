// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package config loads louvainctl's engine options from, in precedence
// order, CLI flags, environment variables, and an optional YAML config
// file, via github.com/spf13/viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Options holds the engine's tunable parameters. Each mapstructure key is
// the CLI flag name with dashes folded to underscores; cmd/louvainctl
// binds every flag to its key through an explicit flag-to-key table.
type Options struct {
	Objective            string  `mapstructure:"objective"`
	Colors               int     `mapstructure:"colors"`
	MaxIterations        int     `mapstructure:"max_iterations"`
	ConvergenceThreshold float64 `mapstructure:"convergence_threshold"`
	MaxLevels            int     `mapstructure:"max_levels"`
	Partitions           int     `mapstructure:"partitions"`
	SpillDir             string  `mapstructure:"spill_dir"`
	SpillThreshold       int     `mapstructure:"spill_threshold"`
	MetricsAddr          string  `mapstructure:"metrics_addr"`
	LogLevel             string  `mapstructure:"log_level"`
	LogJSON              bool    `mapstructure:"log_json"`
}

// Validate reports any option outside the value ranges the engine
// accepts. It does not mutate Options; callers apply defaults via
// viper.SetDefault before Unmarshal, not here.
func (o Options) Validate() error {
	switch o.Objective {
	case "modularity", "map-equation":
	default:
		return fmt.Errorf("config: unsupported objective %q", o.Objective)
	}
	if o.Colors < 1 {
		return fmt.Errorf("config: colors must be >= 1, got %d", o.Colors)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("config: max-iterations must be >= 1, got %d", o.MaxIterations)
	}
	if o.ConvergenceThreshold < 0 || o.ConvergenceThreshold > 1 {
		return fmt.Errorf("config: convergence-threshold must be in [0, 1], got %f", o.ConvergenceThreshold)
	}
	if o.Partitions < 1 {
		return fmt.Errorf("config: partitions must be >= 1, got %d", o.Partitions)
	}
	return nil
}

// Load builds Options from, in ascending precedence, built-in defaults,
// an optional YAML file at configPath (silently skipped if absent),
// environment variables prefixed LOUVAINCTL_, and flags already bound
// into v by the caller (cmd/louvainctl binds cobra flags into v before
// calling Load).
func Load(v *viper.Viper, configPath string) (Options, error) {
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return Options{}, fmt.Errorf("config: reading %s: %w", configPath, err)
			}
		}
	}

	v.SetEnvPrefix("louvainctl")
	v.AutomaticEnv()

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("objective", "modularity")
	v.SetDefault("colors", 4)
	v.SetDefault("max_iterations", 8)
	v.SetDefault("convergence_threshold", 0.01)
	v.SetDefault("max_levels", 0)
	v.SetDefault("partitions", 8)
	v.SetDefault("spill_dir", "")
	v.SetDefault("spill_threshold", 1_000_000)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}
