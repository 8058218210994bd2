// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

import "errors"

// Sentinel errors for the louvain package, grouped by the error kinds
// in the engine's error-handling design: ingestion, invariant violation,
// and engine (dataflow stage) failure. errors.Is can be used against
// these at the CLI boundary to pick an exit code.
var (
	// ErrDegreeMismatch is an invariant violation: the sum of per-node
	// weighted degrees did not equal 2*W at graph construction.
	ErrDegreeMismatch = errors.New("louvain: sum of degrees does not equal 2W")

	// ErrNonDenseNodeIDs is an invariant violation: a graph was constructed
	// with node ids outside [0, N).
	ErrNonDenseNodeIDs = errors.New("louvain: node ids are not dense in [0, N)")

	// ErrContractionWeightMismatch is an invariant violation: a contracted
	// meta-graph's total weight did not match the original level's W.
	ErrContractionWeightMismatch = errors.New("louvain: meta-graph total weight does not match original W")

	// ErrUnknownObjective is returned when an unrecognized objective name
	// is requested from the objective registry.
	ErrUnknownObjective = errors.New("louvain: unknown objective")

	// ErrEmptyGraph indicates an operation that requires at least one node
	// was given a zero-node graph.
	ErrEmptyGraph = errors.New("louvain: graph has zero nodes")
)
