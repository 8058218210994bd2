// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Command louvainctl is the batch driver for the Louvain community
// detection engine: it reads an edge list, runs the hierarchical
// local-moving/contraction loop, and writes the resulting clustering.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
