// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

// ClusterStore is a total function NodeID -> ClusterID. A fresh store
// assigns every node to its own singleton cluster (C(v) = v).
//
// Thread Safety: not safe for concurrent mutation. The local-moving
// kernel never mutates a ClusterStore shared across goroutines; each
// sub-round produces a fresh snapshot (see localmove.go).
type ClusterStore struct {
	assign []ClusterID
}

// NewSingletonClusters returns a store where every node is its own
// cluster: C(v) = v for v in [0, n).
func NewSingletonClusters(n int) *ClusterStore {
	assign := make([]ClusterID, n)
	for v := range assign {
		assign[v] = ClusterID(v)
	}
	return &ClusterStore{assign: assign}
}

// NewClusterStore wraps an existing assignment slice (e.g. one read from
// an optional seed-clustering input file, per the external interface for
// initial clusterings). The caller gives up ownership of assign.
func NewClusterStore(assign []ClusterID) *ClusterStore {
	return &ClusterStore{assign: assign}
}

// Get returns the current cluster of v.
func (c *ClusterStore) Get(v NodeID) ClusterID { return c.assign[v] }

// Set reassigns v to cluster id.
func (c *ClusterStore) Set(v NodeID, id ClusterID) { c.assign[v] = id }

// Len returns the number of nodes the store covers.
func (c *ClusterStore) Len() int { return len(c.assign) }

// Snapshot returns a copy of the current assignment, safe for the
// caller to mutate independently of this store.
func (c *ClusterStore) Snapshot() []ClusterID {
	out := make([]ClusterID, len(c.assign))
	copy(out, c.assign)
	return out
}

// DistinctCount returns the number of distinct cluster ids currently in
// use, without renumbering them. Used by the driver's convergence check
// (K == N) and by the kernel's per-iteration 1%-reduction test.
func (c *ClusterStore) DistinctCount() int {
	seen := make(map[ClusterID]struct{}, len(c.assign))
	for _, id := range c.assign {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Compact renumbers the cluster ids currently in use into a dense
// [0, K) range, in ascending-node-id first-appearance order, and
// returns K. Compact is idempotent: running it again on its own output
// is a no-op, because first-appearance order over an already-dense,
// first-appearance-ordered assignment reproduces the same ids.
func (c *ClusterStore) Compact() int {
	next := make(map[ClusterID]ClusterID)
	nextID := ClusterID(0)
	for v := range c.assign {
		old := c.assign[v]
		if _, ok := next[old]; !ok {
			next[old] = nextID
			nextID++
		}
	}
	for v := range c.assign {
		c.assign[v] = next[c.assign[v]]
	}
	return int(nextID)
}

// Rewrite replaces every cluster id according to idSpace: a node
// currently in cluster c is moved to idSpace[c]. It is the caller's
// responsibility to supply a total function over every id currently in
// use (e.g. a previously-compacted, dense id space); ids missing from
// idSpace are left unchanged. Rewrite aligns ids to an externally
// supplied ordering (spec's C2.rewrite) without re-deriving
// first-appearance order; Run does not call it.
func (c *ClusterStore) Rewrite(idSpace map[ClusterID]ClusterID) {
	for v := range c.assign {
		if mapped, ok := idSpace[c.assign[v]]; ok {
			c.assign[v] = mapped
		}
	}
}
