// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeflow-labs/louvain/internal/storage/spill"
	"github.com/nodeflow-labs/louvain/internal/telemetry"
)

var driverTracer = otel.Tracer("louvain.driver")

// DriverOptions configures Run.
type DriverOptions struct {
	// Objective scores candidate moves at every level. Required.
	Objective Objective

	// Colors is S, the sub-round color class count. Default: DefaultColorClasses.
	Colors int

	// MaxIterationsPerLevel bounds local moving at each level. Default: DefaultMaxIterations.
	MaxIterationsPerLevel int

	// ConvergenceThreshold is the per-level local-moving convergence
	// threshold. Default: DefaultConvergenceThreshold.
	ConvergenceThreshold float64

	// MaxLevels bounds the number of contraction levels the driver will
	// run before stopping regardless of convergence, guarding against a
	// pathological input that never reaches K == N. 0 means unbounded.
	MaxLevels int

	// Partitions is the dataflow fan-out used throughout. Default: dataflow.DefaultPartitions.
	Partitions int

	// Seed, if present, is the initial clustering fed to level 0 instead
	// of singletons (the CLI's --seed-clustering input).
	Seed *ClusterStore

	// Metrics, if non-nil, is updated at every level.
	Metrics *telemetry.EngineMetrics

	// SigmaCacheSize, if non-zero, gives each level's local-moving run a
	// fresh bounded σ_tot cache of this size (see spill.SigmaCache). Zero
	// disables the cache.
	SigmaCacheSize int

	// SpillStore, if non-nil, is handed to every level's local-moving run
	// so levels whose half-edge count passes SpillThreshold are
	// materialized to disk.
	SpillStore *spill.Store

	// SpillThreshold gates SpillStore writes, per LocalMoveOptions.SpillThreshold.
	SpillThreshold int
}

// LevelSummary reports one level's local-moving and contraction outcome,
// used both for logging and for the CLI's --dump-hierarchy artifact.
type LevelSummary struct {
	Level              int
	Nodes              int
	Edges              int
	TotalWeight        int64
	Clusters           int
	Iterations         int
	LocalMoveConverged bool
}

// Result is the output of Run: the final node-to-cluster mapping over
// the original level-0 node ids, and a per-level summary trail.
type Result struct {
	// Assignment maps each original node id to its final top-level
	// cluster id (after Compact, dense in [0, K)).
	Assignment []ClusterID

	// Levels records one summary per level actually run.
	Levels []LevelSummary

	// Modularity is the final modularity of Assignment against the
	// original graph, for reporting.
	Modularity float64
}

// Run drives the hierarchical Louvain loop (§4.6): local-moving, then
// either stop (no node moved, K == N) or contract and recurse. It
// composes every level's mapping back onto the original node ids and
// compacts the final assignment to a dense id space.
func Run(ctx context.Context, g0 *Graph, opts DriverOptions) (Result, error) {
	if opts.Objective == nil {
		return Result{}, fmt.Errorf("louvain: Run requires an Objective")
	}
	if g0.NodeCount() == 0 {
		return Result{}, ErrEmptyGraph
	}

	ctx, span := driverTracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("louvain.nodes", g0.NodeCount()),
		attribute.String("louvain.objective", opts.Objective.Name()),
	))
	defer span.End()

	log := telemetry.Default()

	// composed[v] is the original node v's cluster id in the *current*
	// level's coordinate space; it is re-projected through each level's
	// mapping as the driver descends the hierarchy.
	composed := make([]ClusterID, g0.NodeCount())
	for v := range composed {
		composed[v] = ClusterID(v)
	}

	g := g0
	var levels []LevelSummary
	level := 0
	for {
		levelStart := time.Now()
		var clusters *ClusterStore
		if level == 0 && opts.Seed != nil {
			clusters = opts.Seed
		} else {
			clusters = NewSingletonClusters(g.NodeCount())
		}

		var sigmaCache *spill.SigmaCache
		if opts.SigmaCacheSize > 0 {
			var err error
			sigmaCache, err = spill.NewSigmaCache(opts.SigmaCacheSize)
			if err != nil {
				return Result{}, fmt.Errorf("louvain: level %d sigma cache: %w", level, err)
			}
		}

		lmResult, err := RunLocalMoving(ctx, g, clusters, LocalMoveOptions{
			Objective:            opts.Objective,
			Colors:               opts.Colors,
			MaxIterations:        opts.MaxIterationsPerLevel,
			ConvergenceThreshold: opts.ConvergenceThreshold,
			Partitions:           opts.Partitions,
			Metrics:              opts.Metrics,
			SigmaCache:           sigmaCache,
			SpillStore:           opts.SpillStore,
			Level:                level,
			SpillThreshold:       opts.SpillThreshold,
		})
		if err != nil {
			span.RecordError(err)
			return Result{}, fmt.Errorf("louvain: level %d local moving: %w", level, err)
		}

		k := clusters.DistinctCount()
		summary := LevelSummary{
			Level:              level,
			Nodes:              g.NodeCount(),
			Edges:              g.EdgeCount(),
			TotalWeight:        g.TotalWeight(),
			Clusters:           k,
			Iterations:         lmResult.Iterations,
			LocalMoveConverged: lmResult.Converged,
		}
		levels = append(levels, summary)
		if opts.Metrics != nil {
			opts.Metrics.ClustersFound.Set(float64(k))
			opts.Metrics.LevelDuration.Observe(time.Since(levelStart).Seconds())
		}
		log.Info("level complete",
			"level", level, "nodes", g.NodeCount(), "clusters", k, "iterations", lmResult.Iterations)

		stop := k == g.NodeCount()
		if opts.MaxLevels > 0 && level+1 >= opts.MaxLevels {
			stop = true
		}
		if stop {
			// No next level to align ids with: project straight through
			// this level's (possibly sparse) cluster ids. Compact below
			// renumbers them into a dense final id space regardless.
			composed = project(composed, clusters.Get)
			break
		}

		contracted, err := Contract(ctx, g, clusters, opts.Partitions)
		if err != nil {
			span.RecordError(err)
			return Result{}, fmt.Errorf("louvain: level %d contraction: %w", level, err)
		}
		// Compose through this level's clustering and then through
		// Contract's dense renumbering, so composed[v] lands on a valid
		// node id in the next level's (meta-)graph.
		composed = project(composed, func(v NodeID) ClusterID {
			return ClusterID(contracted.NodeOf[clusters.Get(v)])
		})
		g = contracted.Graph
		level++
	}

	final := NewClusterStore(composed)
	k := final.Compact()
	assignment := final.Snapshot()

	mod := Modularity(g0, assignment)

	span.SetAttributes(
		attribute.Int("louvain.levels", len(levels)),
		attribute.Int("louvain.final_clusters", k),
	)

	return Result{
		Assignment: assignment,
		Levels:     levels,
		Modularity: mod,
	}, nil
}

// project composes the original-node-space assignment composed (where
// composed[v] is a node id in the current level's graph) through
// mapping, producing composed[v]'s image in whatever node space mapping
// targets: the bare current-level cluster id when the hierarchy is
// terminating, or the next level's dense meta-graph node id when it
// continues.
func project(composed []ClusterID, mapping func(NodeID) ClusterID) []ClusterID {
	out := make([]ClusterID, len(composed))
	for v, c := range composed {
		out[v] = mapping(NodeID(c))
	}
	return out
}

// Modularity computes the standard modularity Q of assignment (indexed
// by original node id) against g, for reporting. Q = Σ_c [ (internal
// edge weight of c)/W - (σ_tot(c)/2W)^2 ].
func Modularity(g *Graph, assignment []ClusterID) float64 {
	w := g.TotalWeight()
	if w == 0 {
		return 0
	}
	wf := float64(w)

	internal := make(map[ClusterID]int64)
	sigmaTot := make(map[ClusterID]int64)
	for v := 0; v < g.NodeCount(); v++ {
		c := assignment[v]
		sigmaTot[c] += g.Degree(NodeID(v))
		for _, e := range g.HalfEdges(NodeID(v)) {
			if assignment[e.Head] != c {
				continue
			}
			weight := e.Weight
			if e.Tail == e.Head {
				// A self-loop half-edge is stored once; double it here
				// to match the "self-loop counted twice" degree
				// convention Σ_tot already uses, so both terms of Q
				// are on the same scale.
				weight *= 2
			}
			internal[c] += weight
		}
	}

	var q float64
	for c, tot := range sigmaTot {
		frac := float64(internal[c]) / (2 * wf)
		sigma := float64(tot) / (2 * wf)
		q += frac - sigma*sigma
	}
	return q
}
