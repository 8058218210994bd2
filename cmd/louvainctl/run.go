// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nodeflow-labs/louvain/internal/config"
	"github.com/nodeflow-labs/louvain/internal/ingest"
	"github.com/nodeflow-labs/louvain/internal/louvain"
	"github.com/nodeflow-labs/louvain/internal/storage/spill"
	"github.com/nodeflow-labs/louvain/internal/telemetry"
)

var (
	flagObjective            string
	flagColors               int
	flagMaxIterations        int
	flagConvergenceThreshold float64
	flagMaxLevels            int
	flagPartitions           int
	flagSpillDir             string
	flagSpillThreshold       int
	flagSigmaCacheSize       int
	flagSeed                 uint32
	flagOutput               string
	flagSeedClustering       string
	flagDumpHierarchy        string
)

var runCmd = &cobra.Command{
	Use:   "run EDGES",
	Short: "Run the Louvain hierarchy over an edge-list file",
	Long: `run reads an edge-list file (one "tail head [weight]" per line,
1-based node ids), runs local moving and contraction until K == N, and
writes the resulting dense clustering.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagObjective, "objective", "modularity",
		"objective function: modularity or map-equation")
	runCmd.Flags().IntVar(&flagColors, "colors", louvain.DefaultColorClasses,
		"sub-round color class count S")
	runCmd.Flags().IntVar(&flagMaxIterations, "max-iterations", louvain.DefaultMaxIterations,
		"maximum local-moving iterations per level")
	runCmd.Flags().Float64Var(&flagConvergenceThreshold, "convergence-threshold", louvain.DefaultConvergenceThreshold,
		"minimum fractional cluster-count reduction to continue an iteration")
	runCmd.Flags().IntVar(&flagMaxLevels, "max-levels", 0,
		"maximum contraction levels to run (0 = unbounded)")
	runCmd.Flags().IntVar(&flagPartitions, "partitions", 0,
		"dataflow fan-out, >= 1 (8 when not set)")
	runCmd.Flags().StringVar(&flagSpillDir, "spill-dir", "",
		"directory to spill large levels' half-edges and snapshots to (empty disables spilling)")
	runCmd.Flags().IntVar(&flagSpillThreshold, "spill-threshold", 1_000_000,
		"half-edge count at or above which a level is spilled, when --spill-dir is set")
	runCmd.Flags().IntVar(&flagSigmaCacheSize, "sigma-cache-size", spill.DefaultSigmaCacheSize,
		"bounded LRU size for the per-sub-round sigma_tot cache (0 disables)")
	runCmd.Flags().Uint32Var(&flagSeed, "seed", 0,
		"reproducibility seed (logged; the deterministic tie-break does not consume it)")
	runCmd.Flags().StringVar(&flagOutput, "output", "",
		"output clustering path (empty writes to stdout)")
	runCmd.Flags().StringVar(&flagSeedClustering, "seed-clustering", "",
		"optional input clustering path to seed level 0 instead of singletons")
	runCmd.Flags().StringVar(&flagDumpHierarchy, "dump-hierarchy", "",
		"optional path to write a YAML document per level")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := bindViper(cmd)
	if err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	opts, err := config.Load(v, flagConfigFile)
	if err != nil {
		return err
	}

	log := telemetry.Default()
	log.Info("starting run", "edges", args[0], "objective", opts.Objective, "seed", flagSeed, "run_id", runID)

	shutdownTracing, err := telemetry.InitTracing(ctx)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewEngineMetrics(registry)
	if opts.MetricsAddr != "" {
		server := startMetricsServer(opts.MetricsAddr, registry)
		defer server.Close()
	}

	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}

	objective, err := louvain.ObjectiveByName(opts.Objective)
	if err != nil {
		return err
	}

	var seed *louvain.ClusterStore
	if flagSeedClustering != "" {
		seed, err = loadSeedClustering(flagSeedClustering, g.NodeCount())
		if err != nil {
			return err
		}
	}

	var spillStore *spill.Store
	if opts.SpillDir != "" {
		spillStore, err = spill.OpenWithPath(opts.SpillDir)
		if err != nil {
			return fmt.Errorf("opening spill store: %w", err)
		}
		defer spillStore.Close()
		gc := spill.NewGCRunner(spillStore, 5*time.Minute)
		gc.Start()
		defer gc.Stop()
	}

	driverOpts := louvain.DriverOptions{
		Objective:             objective,
		Colors:                opts.Colors,
		MaxIterationsPerLevel: opts.MaxIterations,
		ConvergenceThreshold:  opts.ConvergenceThreshold,
		MaxLevels:             opts.MaxLevels,
		Partitions:            opts.Partitions,
		Seed:                  seed,
		Metrics:               metrics,
		SigmaCacheSize:        flagSigmaCacheSize,
		SpillStore:            spillStore,
		SpillThreshold:        opts.SpillThreshold,
	}

	result, err := louvain.Run(ctx, g, driverOpts)
	if err != nil {
		return err
	}
	metrics.Modularity.Set(result.Modularity)

	if err := writeOutput(flagOutput, result.Assignment); err != nil {
		return err
	}
	if flagDumpHierarchy != "" {
		if err := dumpHierarchy(flagDumpHierarchy, result); err != nil {
			return err
		}
	}

	printSummary(result, runID)
	return nil
}

func loadGraph(path string) (*louvain.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge list %s: %w", path, err)
	}
	defer f.Close()
	return ingest.ReadEdgeList(f)
}

func loadSeedClustering(path string, n int) (*louvain.ClusterStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed clustering %s: %w", path, err)
	}
	defer f.Close()
	return ingest.ReadSeedClustering(f, n)
}

func writeOutput(path string, assignment []louvain.ClusterID) error {
	if path == "" {
		return ingest.WriteClustering(os.Stdout, assignment)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output %s: %w", path, err)
	}
	defer f.Close()
	return ingest.WriteClustering(f, assignment)
}

func dumpHierarchy(path string, result louvain.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump-hierarchy file %s: %w", path, err)
	}
	defer f.Close()
	return writeHierarchy(f, result)
}

func startMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Default().Warn("metrics server stopped", "err", err)
		}
	}()
	return server
}
