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
)

var contractTracer = otel.Tracer("louvain.contract")

// ContractResult is the output of Contract: the meta-graph over
// ClusterId space, and the dense renumbering applied to the original
// cluster ids to produce the meta-graph's node ids.
type ContractResult struct {
	// Graph is the contracted meta-graph.
	Graph *Graph

	// NodeOf maps an original-level cluster id to its meta-graph node
	// id. Every cluster id that appeared in the clustering passed to
	// Contract has an entry.
	NodeOf map[ClusterID]NodeID
}

// metaEdgeKey is the unordered pairing used to aggregate half-edges by
// (C(tail), C(head)) per §4.5 step 2. Ordering tail/head so the smaller
// cluster id is first collapses both directions of a non-self-loop edge
// into the same aggregation key; the half-edges emitted afterward
// restore both directions.
type metaEdgeKey struct {
	a, b ClusterID
}

func newMetaEdgeKey(c1, c2 ClusterID) metaEdgeKey {
	if c1 <= c2 {
		return metaEdgeKey{c1, c2}
	}
	return metaEdgeKey{c2, c1}
}

// Contract builds the next level's meta-graph from g and its final
// clustering C (§4.5): half-edges are rewritten into ClusterId space,
// aggregated by unordered cluster pair, and emitted as meta half-edges.
// A self-loop after aggregation is emitted as a single half-edge carrying
// the full loop weight (it is not split into two half-weight halves),
// following Graph's self-loop convention, which preserves Σdegree = 2W
// on the meta-graph.
func Contract(ctx context.Context, g *Graph, clusters *ClusterStore, partitions int) (ContractResult, error) {
	if partitions <= 0 {
		partitions = dataflow.DefaultPartitions
	}

	ctx, span := contractTracer.Start(ctx, "Contract", trace.WithAttributes(
		attribute.Int("louvain.nodes", g.NodeCount()),
		attribute.Int("louvain.clusters", clusters.DistinctCount()),
	))
	defer span.End()

	snapshot := clusters.Snapshot()

	// Step 1: rewrite each half-edge's endpoints into cluster space. A
	// non-self-loop original edge is already stored as two half-edges
	// (one per direction); an original self-loop is stored once (see
	// Graph's storage convention), so it is expanded into two items here
	// so every key accumulates "both directions" uniformly regardless of
	// whether it originates from a self-loop or a collapsing cross edge.
	type weighted struct {
		key    metaEdgeKey
		weight int64
	}
	all := g.AllHalfEdges()
	items := make([]weighted, 0, len(all)+g.NodeCount())
	for _, e := range all {
		key := newMetaEdgeKey(snapshot[e.Tail], snapshot[e.Head])
		items = append(items, weighted{key: key, weight: e.Weight})
		if e.Tail == e.Head {
			items = append(items, weighted{key: key, weight: e.Weight})
		}
	}

	// Step 2: aggregate by the unordered key, summing weights. Every key
	// now accumulates exactly twice its true edge-weight total (both
	// directions of every contributing original edge or self-loop); that
	// total is halved back out below when emitting the meta half-edges.

	aggregated, err := dataflow.GroupByReduce(
		ctx,
		items,
		partitions,
		func(w weighted) int { return int(w.key.a) + int(w.key.b) },
		func(w weighted) metaEdgeKey { return w.key },
		int64(0),
		func(acc int64, w weighted) int64 { return acc + w.weight },
		func(a, b int64) int64 { return a + b },
	)
	if err != nil {
		return ContractResult{}, fmt.Errorf("louvain: meta-edge aggregation: %w", err)
	}

	// Dense renumbering of cluster ids into meta-graph node ids, in
	// ascending cluster-id order for determinism.
	clusterSet := aggregatedClusterSet(aggregated)
	for _, c := range snapshot {
		clusterSet[c] = struct{}{}
	}
	clusterIDs := dataflow.SortKeys(clusterSet)
	nodeOf := make(map[ClusterID]NodeID, len(clusterIDs))
	for i, c := range clusterIDs {
		nodeOf[c] = NodeID(i)
	}

	// Step 3: emit half-edges. Every aggregated total is twice the true
	// edge weight (step 1 expanded self-loops to match the "both
	// directions" accounting cross edges already have), so halving
	// recovers the true weight in both cases. A self-loop key (a == b)
	// is stored once at that true weight, matching Graph's "self-loop
	// stored once" convention; a cross-cluster key emits one half-edge
	// per direction at that true weight, matching Graph's two-half-edges
	// convention for ordinary edges.
	var metaEdges []HalfEdge
	for key, total := range aggregated {
		na, oka := nodeOf[key.a]
		nb, okb := nodeOf[key.b]
		if !oka || !okb {
			return ContractResult{}, fmt.Errorf("louvain: meta-edge references unmapped cluster: %w", ErrContractionWeightMismatch)
		}
		weight := total / 2
		if key.a == key.b {
			metaEdges = append(metaEdges, HalfEdge{Tail: na, Head: na, Weight: weight})
			continue
		}
		metaEdges = append(metaEdges,
			HalfEdge{Tail: na, Head: nb, Weight: weight},
			HalfEdge{Tail: nb, Head: na, Weight: weight},
		)
	}

	metaGraph, err := NewGraph(len(clusterIDs), metaEdges)
	if err != nil {
		return ContractResult{}, fmt.Errorf("louvain: meta-graph construction: %w", err)
	}

	if metaGraph.TotalWeight() != g.TotalWeight() {
		return ContractResult{}, fmt.Errorf(
			"louvain: meta-graph weight %d does not match original W %d: %w",
			metaGraph.TotalWeight(), g.TotalWeight(), ErrContractionWeightMismatch,
		)
	}

	span.SetAttributes(
		attribute.Int("louvain.meta_nodes", metaGraph.NodeCount()),
		attribute.Int("louvain.meta_edges", metaGraph.EdgeCount()),
	)

	return ContractResult{Graph: metaGraph, NodeOf: nodeOf}, nil
}

func aggregatedClusterSet(aggregated map[metaEdgeKey]int64) map[ClusterID]struct{} {
	set := make(map[ClusterID]struct{})
	for key := range aggregated {
		set[key.a] = struct{}{}
		set[key.b] = struct{}{}
	}
	return set
}
