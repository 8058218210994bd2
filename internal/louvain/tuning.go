// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain

// fixedRatio scales the derived default iteration budget. It exists as a
// single override point for deployments that need more local-moving
// headroom per level without touching call sites; 1 matches the
// behavior described for the CLI's --max-iterations default.
const fixedRatio = 1

// baseIterationsPerLevel is the un-scaled iteration budget per level
// before fixedRatio is applied.
const baseIterationsPerLevel = 8

// DefaultMaxIterations is the default maximum number of full
// (all-color) local-moving iterations per level, used when the CLI's
// --max-iterations flag is omitted.
const DefaultMaxIterations = baseIterationsPerLevel * fixedRatio
