// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/nodeflow-labs/louvain/internal/dataflow"
	"github.com/nodeflow-labs/louvain/internal/storage/spill"
	"github.com/nodeflow-labs/louvain/internal/telemetry"
)

var localMoveTracer = otel.Tracer("louvain.localmove")

// DefaultColorClasses is S, the number of disjoint color classes a local
// moving iteration partitions nodes into by node_id mod S.
const DefaultColorClasses = 4

// DefaultConvergenceThreshold is the fraction of node count below which
// an iteration's cluster-count reduction makes local moving stop early.
const DefaultConvergenceThreshold = 0.01

// LocalMoveOptions configures one call to RunLocalMoving.
type LocalMoveOptions struct {
	// Objective scores candidate moves. Required.
	Objective Objective

	// Colors is S, the number of color classes. Default: DefaultColorClasses.
	Colors int

	// MaxIterations bounds the number of full (all-color) iterations run
	// regardless of convergence. Default: DefaultMaxIterations (see tuning.go).
	MaxIterations int

	// ConvergenceThreshold is the minimum fractional reduction in
	// distinct-cluster-count an iteration must achieve to continue.
	// Default: DefaultConvergenceThreshold.
	ConvergenceThreshold float64

	// Partitions is the dataflow fan-out used for Partition/Join/GroupByReduce
	// calls within a sub-round. Default: dataflow.DefaultPartitions.
	Partitions int

	// Metrics, if non-nil, receives per-sub-round move counts and
	// per-iteration counters.
	Metrics *telemetry.EngineMetrics

	// SigmaCache, if non-nil, fronts each sub-round's σ_tot lookups with
	// a bounded LRU so repeated probes of the same hot cluster by
	// high-degree nodes within a sub-round skip the map read. Optional;
	// a nil cache falls back to a plain map lookup.
	SigmaCache *spill.SigmaCache

	// SpillStore, if non-nil, materializes this level's half-edges once
	// and each iteration's resulting clustering snapshot, for levels
	// whose size passes SpillThreshold. Optional.
	SpillStore *spill.Store

	// Level identifies this call's position in the hierarchy, used only
	// to key SpillStore records.
	Level int

	// SpillThreshold is the half-edge count a level must reach before
	// RunLocalMoving bothers writing to SpillStore. <= 0 means always
	// spill when SpillStore is set.
	SpillThreshold int
}

func (o *LocalMoveOptions) withDefaults() LocalMoveOptions {
	out := *o
	if out.Colors <= 0 {
		out.Colors = DefaultColorClasses
	}
	if out.MaxIterations <= 0 {
		out.MaxIterations = DefaultMaxIterations
	}
	if out.ConvergenceThreshold <= 0 {
		out.ConvergenceThreshold = DefaultConvergenceThreshold
	}
	if out.Partitions <= 0 {
		out.Partitions = dataflow.DefaultPartitions
	}
	return out
}

// LocalMoveResult reports the outcome of RunLocalMoving.
type LocalMoveResult struct {
	// Clusters is the resulting clustering, the same store passed in,
	// mutated in place across sub-rounds.
	Clusters *ClusterStore

	// Iterations is the number of full iterations actually run.
	Iterations int

	// Converged is true if the loop stopped because an iteration moved no
	// node or its cluster-count reduction fell below the threshold, false
	// if it stopped only because MaxIterations was reached.
	Converged bool

	// AnyNodeMoved is false if no node changed cluster during the entire
	// call, useful for diagnosing a seeded clustering that was already a
	// local optimum.
	AnyNodeMoved bool
}

// RunLocalMoving runs the synchronous local-moving kernel (C4) to
// completion: repeated iterations of S color-class sub-rounds, each
// evaluated against a consistent snapshot of the other S-1 classes,
// until the per-iteration distinct-cluster-count reduction drops below
// opts.ConvergenceThreshold or opts.MaxIterations is reached.
func RunLocalMoving(ctx context.Context, g *Graph, clusters *ClusterStore, opts LocalMoveOptions) (LocalMoveResult, error) {
	o := opts.withDefaults()
	if o.Objective == nil {
		return LocalMoveResult{}, fmt.Errorf("louvain: RunLocalMoving requires an Objective")
	}

	ctx, span := localMoveTracer.Start(ctx, "RunLocalMoving", trace.WithAttributes(
		attribute.Int("louvain.nodes", g.NodeCount()),
		attribute.Int("louvain.colors", o.Colors),
		attribute.String("louvain.objective", o.Objective.Name()),
	))
	defer span.End()

	result := LocalMoveResult{Clusters: clusters}
	if g.NodeCount() == 0 {
		return result, nil
	}

	if shouldSpill(o, g) {
		if err := spillLevelEdges(ctx, o.SpillStore, o.Level, g); err != nil {
			telemetry.Default().Warn("spill level edges failed", "level", o.Level, "err", err)
		}
	}

	anyMovedEver := false
	for iter := 0; iter < o.MaxIterations; iter++ {
		before := clusters.DistinctCount()
		movedThisIteration := false

		for color := 0; color < o.Colors; color++ {
			moved, err := runSubRound(ctx, g, clusters, o, color)
			if err != nil {
				span.RecordError(err)
				return result, err
			}
			if moved > 0 {
				movedThisIteration = true
				anyMovedEver = true
			}
		}

		result.Iterations++
		if o.Metrics != nil {
			o.Metrics.IterationsTotal.Inc()
		}
		telemetry.Default().Debug("local moving iteration complete",
			"iteration", iter, "colors", o.Colors)

		if shouldSpill(o, g) {
			if err := spillSnapshot(ctx, o.SpillStore, o.Level, iter, clusters); err != nil {
				telemetry.Default().Warn("spill snapshot failed", "level", o.Level, "iteration", iter, "err", err)
			}
		}

		after := clusters.DistinctCount()
		if !movedThisIteration {
			result.Converged = true
			break
		}

		reduction := before - after
		if before > 0 && float64(reduction)/float64(g.NodeCount()) < o.ConvergenceThreshold {
			result.Converged = true
			break
		}
	}

	result.AnyNodeMoved = anyMovedEver
	span.SetAttributes(attribute.Int("louvain.iterations", result.Iterations))
	return result, nil
}

// cachedSigmaSource fronts fallback (this sub-round's freshly computed
// σ_tot map) with a bounded LRU: a hit skips the map read entirely, a
// miss reads fallback once and populates the cache for the next probe
// of the same cluster.
type cachedSigmaSource struct {
	cache    *spill.SigmaCache
	fallback map[ClusterID]int64
}

// Get implements SigmaSource.
func (c cachedSigmaSource) Get(cluster ClusterID) int64 {
	if v, ok := c.cache.Get(uint32(cluster)); ok {
		return v
	}
	v := c.fallback[cluster]
	c.cache.Put(uint32(cluster), v)
	return v
}

// candidateAgg is one (node, candidate-cluster) aggregate produced by steps
// 2-4 of the sub-round dataflow in §4.4: the raw incident weight from v
// to c_u, before the a\{v} self-loop adjustment objective.Delta applies.
type candidateAgg struct {
	node    NodeID
	cluster ClusterID
	weight  int64
}

// moveDecision is the step-5 output of the sub-round dataflow: a node's
// argmax candidate cluster and whether it differs from its current one.
type moveDecision struct {
	node  NodeID
	best  ClusterID
	moved bool
}

// runSubRound runs one sub-round of the kernel: only nodes whose
// node_id mod S == color may change cluster, evaluated against the
// snapshot of cluster assignments as of the start of the sub-round. It
// returns the number of nodes that actually changed cluster.
func runSubRound(ctx context.Context, g *Graph, clusters *ClusterStore, o LocalMoveOptions, color int) (int, error) {
	ctx, span := localMoveTracer.Start(ctx, "runSubRound", trace.WithAttributes(
		attribute.Int("louvain.color", color),
	))
	defer span.End()

	snapshot := clusters.Snapshot()
	lookupCluster := func(v NodeID) (ClusterID, bool) {
		if int(v) >= len(snapshot) {
			return 0, false
		}
		return snapshot[v], true
	}

	// Step 1: per-cluster sigma_tot under the sub-round's snapshot,
	// computed by grouping every node's degree by its current cluster.
	sigmaTot, err := dataflow.GroupByReduce(
		ctx,
		allNodeIDs(g.NodeCount()),
		o.Partitions,
		func(v NodeID) int { return int(v) },
		func(v NodeID) ClusterID { return snapshot[v] },
		int64(0),
		func(acc int64, v NodeID) int64 { return acc + g.Degree(v) },
		func(a, b int64) int64 { return a + b },
	)
	if err != nil {
		return 0, fmt.Errorf("louvain: sigma_tot aggregation: %w", err)
	}

	var sigmaSource SigmaSource = MapSigmaSource(sigmaTot)
	if o.SigmaCache != nil {
		o.SigmaCache.Invalidate()
		sigmaSource = cachedSigmaSource{cache: o.SigmaCache, fallback: sigmaTot}
	}

	// Steps 2-3: for each half-edge whose tail has this sub-round's
	// color, join the head's current cluster and emit a (v, c_u, w)
	// aggregate; group by (v, c_u) summing w to get k_{v->c_u}.
	movable := allHalfEdgesForColor(g, o.Colors, color)
	joined, err := dataflow.Join(
		ctx,
		movable,
		o.Partitions,
		func(e HalfEdge) int { return int(e.Tail) },
		func(e HalfEdge) (ClusterID, bool) { return lookupCluster(e.Head) },
		func(e HalfEdge, c ClusterID, found bool) candidateAgg {
			if !found {
				c = snapshot[e.Tail]
			}
			return candidateAgg{node: e.Tail, cluster: c, weight: e.Weight}
		},
	)
	if err != nil {
		return 0, fmt.Errorf("louvain: candidate join: %w", err)
	}

	type nodeClusterKey struct {
		node    NodeID
		cluster ClusterID
	}
	incidentByPair, err := dataflow.GroupByReduce(
		ctx,
		joined,
		o.Partitions,
		func(a candidateAgg) int { return int(a.node) },
		func(a candidateAgg) nodeClusterKey { return nodeClusterKey{a.node, a.cluster} },
		int64(0),
		func(acc int64, a candidateAgg) int64 { return acc + a.weight },
		func(a, b int64) int64 { return a + b },
	)
	if err != nil {
		return 0, fmt.Errorf("louvain: incident-weight aggregation: %w", err)
	}

	// Step 4: regroup by node into the full candidate list.
	perNode := make(map[NodeID]map[ClusterID]int64, len(movable))
	for key, weight := range incidentByPair {
		byCluster, ok := perNode[key.node]
		if !ok {
			byCluster = make(map[ClusterID]int64)
			perNode[key.node] = byCluster
		}
		byCluster[key.cluster] = weight
	}

	// Step 5: score every candidate and select the argmax, per node,
	// concurrently across partitions of the movable node set.
	nodesOfColor := nodesInColor(g.NodeCount(), o.Colors, color)
	decisions, err := dataflow.MapPartitions(
		ctx,
		dataflow.Partition(nodesOfColor, o.Partitions, func(v NodeID) int { return int(v) }),
		func(_ context.Context, part []NodeID) ([]moveDecision, error) {
			out := make([]moveDecision, 0, len(part))
			for _, v := range part {
				current := snapshot[v]
				byCluster := perNode[v]
				mc := &MoveContext{
					Current:        current,
					Degree:         g.Degree(v),
					SelfLoopWeight: g.SelfLoopWeight(v),
					RawIncident:    byCluster,
					SigmaTot:       sigmaSource,
				}
				best := selectBestMove(o.Objective, mc, g.TotalWeight())
				out = append(out, moveDecision{node: v, best: best, moved: best != current})
			}
			return out, nil
		},
	)
	if err != nil {
		return 0, fmt.Errorf("louvain: candidate scoring: %w", err)
	}

	moved := 0
	for _, part := range decisions {
		for _, d := range part {
			if d.moved {
				clusters.Set(d.node, d.best)
				moved++
				if o.Metrics != nil {
					o.Metrics.MovesAccepted.WithLabelValues(colorLabel(color)).Inc()
				}
			} else if o.Metrics != nil {
				o.Metrics.MovesRejected.WithLabelValues(colorLabel(color)).Inc()
			}
		}
	}

	span.SetAttributes(attribute.Int("louvain.moves", moved))
	return moved, nil
}

// selectBestMove implements the §4.3 argmax/tie-break rule: the current
// cluster is the Δ=0 baseline; any candidate with strictly greater Δ
// wins; among candidates tied at the same positive Δ, the smallest
// cluster id wins.
func selectBestMove(obj Objective, mc *MoveContext, totalWeight int64) ClusterID {
	bestDelta := int64(0)
	bestCluster := mc.Current

	candidates := dataflow.SortKeys(mc.RawIncident)
	for _, c := range candidates {
		if c == mc.Current {
			continue
		}
		delta := obj.Delta(mc, c, totalWeight)
		if delta > bestDelta || (delta == bestDelta && delta > 0 && c < bestCluster) {
			bestDelta = delta
			bestCluster = c
		}
	}
	return bestCluster
}

func allNodeIDs(n int) []NodeID {
	out := make([]NodeID, n)
	for v := range out {
		out[v] = NodeID(v)
	}
	return out
}

func nodesInColor(n, colors, color int) []NodeID {
	out := make([]NodeID, 0, n/colors+1)
	for v := 0; v < n; v++ {
		if v%colors == color {
			out = append(out, NodeID(v))
		}
	}
	return out
}

func allHalfEdgesForColor(g *Graph, colors, color int) []HalfEdge {
	all := g.AllHalfEdges()
	out := make([]HalfEdge, 0, len(all)/colors+1)
	for _, e := range all {
		if int(e.Tail)%colors == color {
			out = append(out, e)
		}
	}
	return out
}

func colorLabel(color int) string {
	return fmt.Sprintf("%d", color)
}

// shouldSpill reports whether a level of g's size warrants writing to
// o.SpillStore, per o.SpillThreshold.
func shouldSpill(o LocalMoveOptions, g *Graph) bool {
	if o.SpillStore == nil {
		return false
	}
	return o.SpillThreshold <= 0 || g.EdgeCount() >= o.SpillThreshold
}

// spillLevelEdges materializes g's half-edges into store, splitting
// HalfEdge into the parallel primitive slices the storage package
// expects.
func spillLevelEdges(ctx context.Context, store *spill.Store, level int, g *Graph) error {
	all := g.AllHalfEdges()
	tails := make([]uint32, len(all))
	heads := make([]uint32, len(all))
	weights := make([]int64, len(all))
	for i, e := range all {
		tails[i] = uint32(e.Tail)
		heads[i] = uint32(e.Head)
		weights[i] = e.Weight
	}
	return store.PutEdges(ctx, level, tails, heads, weights)
}

// spillSnapshot materializes one iteration's resulting clustering.
func spillSnapshot(ctx context.Context, store *spill.Store, level, iteration int, clusters *ClusterStore) error {
	assign := clusters.Snapshot()
	out := make([]uint32, len(assign))
	for i, c := range assign {
		out[i] = uint32(c)
	}
	return store.PutClusterSnapshot(ctx, level, iteration, out)
}
