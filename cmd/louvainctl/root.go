// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nodeflow-labs/louvain/internal/telemetry"
)

// runID correlates every log line and the root trace span of one
// louvainctl invocation.
var runID = uuid.NewString()

var (
	flagConfigFile  string
	flagLogLevel    string
	flagLogJSON     bool
	flagMetricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "louvainctl",
	Short: "Hierarchical Louvain community detection over a weighted graph",
	Long: `louvainctl runs the local-moving + meta-graph contraction loop
described by the engine's dataflow design against an edge-list input,
producing a dense node-to-cluster assignment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := telemetry.LevelInfo
		switch flagLogLevel {
		case "debug":
			level = telemetry.LevelDebug
		case "warn":
			level = telemetry.LevelWarn
		case "error":
			level = telemetry.LevelError
		}
		logger := telemetry.New(telemetry.Config{Level: level, Service: "louvainctl", JSON: flagLogJSON})
		telemetry.SetDefault(logger.WithRunID(cmd.Context(), runID))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "",
		"path to a YAML config file overriding defaults (see internal/config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"minimum log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false,
		"emit structured JSON logs instead of text")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "",
		"address to serve /metrics on during the run (empty disables)")

	rootCmd.AddCommand(runCmd)
}

// configFlagKeys maps a config key (the internal/config.Options
// mapstructure tag) to the CLI flag name exposing it, since the engine's
// config keys are underscored but flag names follow cobra's
// dash convention.
var configFlagKeys = map[string]string{
	"objective":             "objective",
	"colors":                "colors",
	"max_iterations":        "max-iterations",
	"convergence_threshold": "convergence-threshold",
	"max_levels":            "max-levels",
	"partitions":            "partitions",
	"spill_dir":             "spill-dir",
	"spill_threshold":       "spill-threshold",
	"metrics_addr":          "metrics-addr",
	"log_level":             "log-level",
	"log_json":              "log-json",
}

// bindViper builds a *viper.Viper with cmd's flags bound to the engine
// config's key names, so internal/config.Load sees CLI flags ahead of
// environment and file defaults.
func bindViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	for configKey, flagName := range configFlagKeys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(configKey, flag); err != nil {
			return nil, err
		}
	}
	return v, nil
}
