// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package main

import (
	"errors"

	"github.com/nodeflow-labs/louvain/internal/ingest"
	"github.com/nodeflow-labs/louvain/internal/louvain"
)

// Exit codes distinguish the error kinds in the engine's error-handling
// design, so a supervising process can tell ingestion mistakes (likely
// the operator's fault) from invariant violations (likely an engine
// bug) from plain engine/dataflow failures.
const (
	exitSuccess        = 0
	exitUsageError     = 2
	exitIngestionError = 10
	exitInvariantError = 11
	exitEngineError    = 12
)

// exitCodeFor classifies err against the sentinel errors of
// internal/ingest and internal/louvain to select a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch {
	case errors.Is(err, ingest.ErrMalformedLine),
		errors.Is(err, ingest.ErrNodeIDOutOfRange),
		errors.Is(err, ingest.ErrInconsistentSelfLoop),
		errors.Is(err, ingest.ErrSeedClusteringSize):
		return exitIngestionError
	case errors.Is(err, louvain.ErrDegreeMismatch),
		errors.Is(err, louvain.ErrNonDenseNodeIDs),
		errors.Is(err, louvain.ErrContractionWeightMismatch):
		return exitInvariantError
	case errors.Is(err, louvain.ErrUnknownObjective),
		errors.Is(err, louvain.ErrEmptyGraph):
		return exitUsageError
	default:
		return exitEngineError
	}
}
