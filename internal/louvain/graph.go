// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package louvain implements the distributed-style Louvain community
// detection core: the graph model, cluster store, objective evaluator,
// local-moving kernel, meta-graph builder, and the hierarchical driver
// that ties them together.
//
// # Dataflow shape
//
// The graph does not fit on one machine in the target deployment; every
// stage that crosses a node's neighborhood (the local-moving kernel, the
// meta-graph builder) is expressed as joins, grouped reductions, and
// sorts over partitioned collections (see internal/dataflow) rather than
// as pointer-chasing over a shared adjacency structure. A level's graph
// is immutable once built, and a new level's graph is always a fresh
// value, never a mutation of the old one. A level's clustering is
// updated in place between sub-rounds.
//
// # Thread Safety
//
// Graph is immutable after construction and safe for concurrent reads.
// ClusterStore is not safe for concurrent mutation; the local-moving
// kernel synchronizes sub-round snapshots explicitly instead of sharing
// a mutable store across goroutines.
package louvain

import "fmt"

// NodeID identifies a vertex within one level's graph. Node ids are
// dense in [0, N) for the level they belong to.
type NodeID uint32

// ClusterID identifies a cluster (community). Ids need not be dense
// until ClusterStore.Compact is called.
type ClusterID uint32

// HalfEdge is a single directed half of an undirected edge: Weight is
// the weight of the edge from Tail to Head. A self-loop (Tail == Head)
// is stored once; every other undirected edge is stored as two
// HalfEdges, one in each direction.
type HalfEdge struct {
	Tail   NodeID
	Head   NodeID
	Weight int64
}

// Graph is the canonical, immutable in-memory representation of one
// level's weighted undirected graph: node count, total weight, each
// node's weighted degree, and its half-edges grouped by tail in a
// CSR-style layout so that GroupBy/Join steps over "all half-edges of
// node v" are a slice, not a map lookup.
type Graph struct {
	n         int
	w         int64 // total weight W; Σ degree(v) == 2W
	degree    []int64
	selfLoop  []int64 // self-loop weight of v, stored once (not doubled)
	adjStart  []int32 // len n+1; half-edges of node v are halfEdges[adjStart[v]:adjStart[v+1]]
	halfEdges []HalfEdge
}

// NewGraph builds a Graph from a flat list of half-edges over n dense
// node ids. Self-loops must appear exactly once in edges (Tail==Head);
// every other undirected edge must appear as two HalfEdges, one per
// direction, per the package doc's storage convention.
//
// NewGraph verifies the invariant Σ degree(v) == 2W (self-loops counted
// twice in degree); a mismatch is a fatal invariant violation
// (ErrDegreeMismatch), since it indicates malformed input or an
// implementation bug rather than a recoverable condition.
func NewGraph(n int, edges []HalfEdge) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("louvain: negative node count %d: %w", n, ErrNonDenseNodeIDs)
	}

	degree := make([]int64, n)
	selfLoop := make([]int64, n)
	counts := make([]int32, n+1)
	for _, e := range edges {
		if err := checkNodeID(e.Tail, n); err != nil {
			return nil, err
		}
		if err := checkNodeID(e.Head, n); err != nil {
			return nil, err
		}
		counts[e.Tail+1]++
		if e.Tail == e.Head {
			degree[e.Tail] += 2 * e.Weight
			selfLoop[e.Tail] += e.Weight
		} else {
			degree[e.Tail] += e.Weight
		}
	}

	adjStart := make([]int32, n+1)
	for v := 0; v < n; v++ {
		adjStart[v+1] = adjStart[v] + counts[v+1]
	}

	halfEdges := make([]HalfEdge, len(edges))
	cursor := make([]int32, n)
	copy(cursor, adjStart[:n])
	for _, e := range edges {
		pos := cursor[e.Tail]
		halfEdges[pos] = e
		cursor[e.Tail]++
	}

	var sumDegree int64
	for _, d := range degree {
		sumDegree += d
	}
	if sumDegree%2 != 0 {
		return nil, fmt.Errorf("louvain: odd sum of degrees %d: %w", sumDegree, ErrDegreeMismatch)
	}
	w := sumDegree / 2

	return &Graph{
		n:         n,
		w:         w,
		degree:    degree,
		selfLoop:  selfLoop,
		adjStart:  adjStart,
		halfEdges: halfEdges,
	}, nil
}

func checkNodeID(v NodeID, n int) error {
	if int(v) < 0 || int(v) >= n {
		return fmt.Errorf("louvain: node id %d out of range [0, %d): %w", v, n, ErrNonDenseNodeIDs)
	}
	return nil
}

// NodeCount returns N, the number of nodes in the graph.
func (g *Graph) NodeCount() int { return g.n }

// TotalWeight returns W, half the sum of all per-node weighted degrees.
// W is computed once at construction and is immutable for the life of
// the graph.
func (g *Graph) TotalWeight() int64 { return g.w }

// Degree returns the weighted degree of v (self-loop weight counted
// twice).
func (g *Graph) Degree(v NodeID) int64 { return g.degree[v] }

// SelfLoopWeight returns the weight of v's self-loop half-edge, stored
// once (not doubled), or 0 if v has none.
func (g *Graph) SelfLoopWeight(v NodeID) int64 { return g.selfLoop[v] }

// HalfEdges returns the half-edges whose tail is v, in the order they
// were supplied to NewGraph. The returned slice shares storage with the
// graph and must not be mutated.
func (g *Graph) HalfEdges(v NodeID) []HalfEdge {
	return g.halfEdges[g.adjStart[v]:g.adjStart[v+1]]
}

// AllHalfEdges returns every half-edge in the graph, grouped by tail.
// Used by stages (contraction, whole-graph modularity checks) that need
// to stream the full edge list rather than one node's neighborhood.
func (g *Graph) AllHalfEdges() []HalfEdge { return g.halfEdges }

// EdgeCount returns the number of stored half-edges (not the number of
// undirected edges: an ordinary edge contributes two, a self-loop one).
func (g *Graph) EdgeCount() int { return len(g.halfEdges) }
