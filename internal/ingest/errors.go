// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package ingest reads and writes the engine's external text formats: the
// edge-list input, the optional seed-clustering input, and the output
// clustering, per the engine's ingestion contract.
package ingest

import "errors"

// Sentinel errors for ingestion. All are fatal: there is no recovery
// beyond skipping comment/blank lines, per the engine's error design.
var (
	// ErrMalformedLine is returned for an edge-list or clustering line
	// that does not parse into the expected fields.
	ErrMalformedLine = errors.New("ingest: malformed line")

	// ErrNodeIDOutOfRange is returned when a 1-based input node id is
	// zero or negative (and so cannot be decremented to a valid 0-based
	// id).
	ErrNodeIDOutOfRange = errors.New("ingest: node id out of range")

	// ErrInconsistentSelfLoop is returned when the same self-loop node
	// appears on more than one input line with different weights.
	ErrInconsistentSelfLoop = errors.New("ingest: duplicate self-loop with inconsistent weight")

	// ErrSeedClusteringSize is returned when a seed-clustering file's
	// line count does not match the edge list's node count.
	ErrSeedClusteringSize = errors.New("ingest: seed clustering size does not match node count")
)
