// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

import "math"

// MoveContext carries everything the objective evaluator needs to score
// one node's candidate clusters during a sub-round. It is assembled by
// the local-moving kernel from the per-(node, candidate-cluster)
// incident-weight grouping described in the kernel's dataflow steps, so
// the objective itself never touches the graph or the cluster store
// directly: it is a pure function of these precomputed aggregates,
// which is what makes it pluggable (modularity vs. map equation) without
// changing the kernel.
type MoveContext struct {
	// Current is the node's cluster before this sub-round's decision.
	Current ClusterID

	// Degree is k_v, the node's weighted degree (self-loop counted
	// twice).
	Degree int64

	// SelfLoopWeight is the weight of v's self-loop half-edge, or 0 if
	// v has none. It is stored once (not doubled) in RawIncident[Current].
	SelfLoopWeight int64

	// RawIncident maps candidate cluster id -> raw sum of half-edge
	// weights from v into that cluster's current members, with no
	// self-loop adjustment applied. For Current, this still includes v's
	// own self-loop contributed once; the objective subtracts it to
	// obtain k_{v->Current\{v}}.
	RawIncident map[ClusterID]int64

	// SigmaTot resolves candidate cluster id -> σ_tot(c) under the
	// assignment at the start of this sub-round (v's own degree is
	// included in SigmaTot.Get(Current); the objective subtracts it to
	// obtain σ_tot(Current\{v})). Callers typically pass a plain map
	// (MapSigmaSource) or a bounded-cache-backed source.
	SigmaTot SigmaSource
}

// SigmaSource resolves a cluster id to its σ_tot under one sub-round's
// snapshot. It exists so the kernel can front the plain per-sub-round
// map with a bounded cache without changing the objective's interface.
type SigmaSource interface {
	Get(c ClusterID) int64
}

// MapSigmaSource is the default SigmaSource: a plain map as produced
// directly by the sub-round's per-cluster reduction.
type MapSigmaSource map[ClusterID]int64

// Get implements SigmaSource.
func (m MapSigmaSource) Get(c ClusterID) int64 { return m[c] }

// incidentExcludingSelf returns k_{v->c}, adjusted so that when c is the
// node's current cluster the node's own self-loop is excluded entirely
// (neither single- nor double-counted), matching the a\{v} convention in
// the modularity delta formula: a\{v} removes v from the candidate set,
// so an edge from v to itself no longer has a valid endpoint within it.
func (mc *MoveContext) incidentExcludingSelf(c ClusterID) int64 {
	raw := mc.RawIncident[c]
	if c == mc.Current {
		raw -= mc.SelfLoopWeight
	}
	return raw
}

// sigmaExcludingSelf returns σ_tot(c), with v's own degree removed when
// c is the node's current cluster (σ_tot(a\{v}) = σ_tot(a) - k_v).
func (mc *MoveContext) sigmaExcludingSelf(c ClusterID) int64 {
	s := mc.SigmaTot.Get(c)
	if c == mc.Current {
		s -= mc.Degree
	}
	return s
}

// Objective scores a candidate move for one node. Implementations must
// be deterministic given the same MoveContext and totalWeight, and must
// return exactly 0 when candidate equals ctx.Current (staying put is
// always the zero baseline against which every other candidate is
// compared).
type Objective interface {
	// Name identifies the objective for logs, traces, and the
	// --objective CLI flag.
	Name() string

	// Delta returns the signed, consistently-scaled gain of moving the
	// node from ctx.Current into candidate, given the graph's total
	// weight. A positive value means the move improves the objective.
	Delta(ctx *MoveContext, candidate ClusterID, totalWeight int64) int64
}

// ModularityObjective implements the integer-scaled modularity delta:
//
//	Δ = 2·(k_{v→b} − k_{v→a\{v}})·W − (σ_tot(b) − σ_tot(a\{v}))·k_v
//
// kept as an integer scaled by 2W to avoid floating point in the hot
// path, per the engine's objective design. Candidate == Current always
// yields exactly 0 since both subtracted terms cancel.
type ModularityObjective struct{}

// Name returns "modularity".
func (ModularityObjective) Name() string { return "modularity" }

// Delta implements Objective.
func (ModularityObjective) Delta(ctx *MoveContext, candidate ClusterID, totalWeight int64) int64 {
	kTo := ctx.incidentExcludingSelf(candidate) - ctx.incidentExcludingSelf(ctx.Current)
	sigma := ctx.sigmaExcludingSelf(candidate) - ctx.sigmaExcludingSelf(ctx.Current)
	return 2*kTo*totalWeight - sigma*ctx.Degree
}

// mapEquationScale is the fixed-point multiplier applied to the
// floating-point bit-rate terms of the map equation before truncating
// to an integer. It is large enough to preserve the sign of differences
// at the scales a single-level local move produces; it is not a
// precision claim beyond that sign-preservation requirement.
const mapEquationScale = 1 << 20

// MapEquationObjective is the optional map-equation variant mentioned in
// the objective design: the local-moving kernel is objective-agnostic,
// so this exposes the same Delta signature as ModularityObjective but
// scores candidates by the reduction in expected description length of
// a random walk, using Shannon entropy over visit/exit probabilities.
// Internally this uses float64 (math.Log2) and is converted to a fixed-
// point integer only at the return boundary, since the kernel's
// tie-break and argmax logic are integer-comparison based.
type MapEquationObjective struct{}

// Name returns "map-equation".
func (MapEquationObjective) Name() string { return "map-equation" }

// Delta implements Objective. It approximates the per-move codelength
// change using the two-level map equation's exit-probability terms:
// moving v into a cluster with larger internal/external weight ratio
// lowers the expected number of bits needed to describe a random
// walker's module transitions.
func (MapEquationObjective) Delta(ctx *MoveContext, candidate ClusterID, totalWeight int64) int64 {
	if candidate == ctx.Current {
		return 0
	}
	if totalWeight == 0 {
		return 0
	}
	m := float64(totalWeight)

	// Plogp(x) = x * log2(x) for the entropy terms below, with the
	// standard convention Plogp(0) = 0.
	plogp := func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		return x * math.Log2(x)
	}

	kTo := float64(ctx.incidentExcludingSelf(candidate) - ctx.incidentExcludingSelf(ctx.Current))
	sigmaDelta := float64(ctx.sigmaExcludingSelf(candidate) - ctx.sigmaExcludingSelf(ctx.Current))
	kv := float64(ctx.Degree)

	// Exit probability terms for the two affected modules, expressed as
	// a fraction of total weight. A move that increases the weight
	// retained within a module (more kTo) while not inflating that
	// module's total incident weight disproportionately (sigmaDelta)
	// reduces exit entropy, which is what this term approximates.
	gain := plogp(kTo/m) - plogp(sigmaDelta/(2*m)) + plogp(kv/(2*m))

	return int64(gain * mapEquationScale)
}

// objectiveByName is the registry the CLI's --objective flag and the
// driver consult; it is the single place new objectives are registered.
var objectiveByName = map[string]Objective{
	"modularity":   ModularityObjective{},
	"map-equation": MapEquationObjective{},
}

// ObjectiveByName looks up a registered Objective by its CLI/config
// name. It returns ErrUnknownObjective for anything not registered in
// objectiveByName.
func ObjectiveByName(name string) (Objective, error) {
	obj, ok := objectiveByName[name]
	if !ok {
		return nil, ErrUnknownObjective
	}
	return obj, nil
}
