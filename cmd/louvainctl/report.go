// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

var (
	colorAccent = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#5C7A85")

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleLabel  = lipgloss.NewStyle().Foreground(colorMuted)
	styleValue  = lipgloss.NewStyle().Bold(true)
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
)

// printSummary renders result's per-level trail and final modularity to
// stderr as a styled table, the CLI's human-facing report of a run.
func printSummary(result louvain.Result, runID string) {
	fmt.Fprintln(os.Stderr, styleTitle.Render("louvainctl run "+runID))
	fmt.Fprintln(os.Stderr, styleHeader.Render(
		fmt.Sprintf("%-6s %-10s %-10s %-14s %-10s %s", "level", "nodes", "edges", "weight", "clusters", "iters")))
	for _, lvl := range result.Levels {
		fmt.Fprintf(os.Stderr, "%-6d %-10d %-10d %-14d %-10d %d\n",
			lvl.Level, lvl.Nodes, lvl.Edges, lvl.TotalWeight, lvl.Clusters, lvl.Iterations)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "%s %s\n", styleLabel.Render("final clusters:"), styleValue.Render(fmt.Sprintf("%d", finalClusterCount(result))))
	fmt.Fprintf(os.Stderr, "%s %s\n", styleLabel.Render("modularity:"), styleValue.Render(fmt.Sprintf("%.6f", result.Modularity)))
}

func finalClusterCount(result louvain.Result) int {
	if len(result.Levels) == 0 {
		return 0
	}
	return result.Levels[len(result.Levels)-1].Clusters
}

// hierarchyDoc is one --dump-hierarchy YAML document, one per level.
type hierarchyDoc struct {
	Level       int     `yaml:"level"`
	Nodes       int     `yaml:"nodes"`
	Edges       int     `yaml:"edges"`
	TotalWeight int64   `yaml:"total_weight"`
	Clusters    int     `yaml:"clusters"`
	Iterations  int     `yaml:"iterations"`
	Converged   bool    `yaml:"converged"`
}

// writeHierarchy writes one YAML document per level of result to w, per
// the --dump-hierarchy debug artifact.
func writeHierarchy(w io.Writer, result louvain.Result) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	for _, lvl := range result.Levels {
		doc := hierarchyDoc{
			Level:       lvl.Level,
			Nodes:       lvl.Nodes,
			Edges:       lvl.Edges,
			TotalWeight: lvl.TotalWeight,
			Clusters:    lvl.Clusters,
			Iterations:  lvl.Iterations,
			Converged:   lvl.LocalMoveConverged,
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("dump-hierarchy: encode level %d: %w", lvl.Level, err)
		}
	}
	return nil
}
