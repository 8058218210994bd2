// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

// ReadEdgeList parses the engine's text edge-list format from r: one
// edge per line as whitespace-separated `tail head [weight]`, 1-based
// node ids decremented to 0-based, `#`-prefixed and blank lines
// skipped. Each line induces two half-edges (tail->head and
// head->tail), except a self-loop line (tail == head), which induces
// one. The node count is the highest node id referenced plus one.
//
// A line with fewer than two fields, non-integer fields, a zero or
// negative node id, or a negative weight is a fatal ErrMalformedLine /
// ErrNodeIDOutOfRange. A self-loop node referenced on more than one
// line with different weights is ErrInconsistentSelfLoop.
func ReadEdgeList(r io.Reader) (*louvain.Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var edges []louvain.HalfEdge
	selfLoopWeight := make(map[louvain.NodeID]int64)
	maxID := -1
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("ingest: line %d: %w", lineNo, ErrMalformedLine)
		}

		tail1, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ingest: line %d: tail %q: %w", lineNo, fields[0], ErrMalformedLine)
		}
		head1, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ingest: line %d: head %q: %w", lineNo, fields[1], ErrMalformedLine)
		}
		if tail1 < 1 || head1 < 1 {
			return nil, fmt.Errorf("ingest: line %d: %w", lineNo, ErrNodeIDOutOfRange)
		}

		weight := int64(1)
		if len(fields) >= 3 {
			w, err := strconv.ParseInt(fields[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("ingest: line %d: weight %q: %w", lineNo, fields[2], ErrMalformedLine)
			}
			if w < 0 {
				return nil, fmt.Errorf("ingest: line %d: negative weight: %w", lineNo, ErrMalformedLine)
			}
			weight = w
		}

		tail := louvain.NodeID(tail1 - 1)
		head := louvain.NodeID(head1 - 1)
		if int(tail) > maxID {
			maxID = int(tail)
		}
		if int(head) > maxID {
			maxID = int(head)
		}

		if tail == head {
			if prev, ok := selfLoopWeight[tail]; ok {
				if prev != weight {
					return nil, fmt.Errorf("ingest: line %d: node %d: %w", lineNo, tail1, ErrInconsistentSelfLoop)
				}
				// A repeated line restates the same self-loop.
				continue
			}
			selfLoopWeight[tail] = weight
			edges = append(edges, louvain.HalfEdge{Tail: tail, Head: head, Weight: weight})
			continue
		}

		edges = append(edges,
			louvain.HalfEdge{Tail: tail, Head: head, Weight: weight},
			louvain.HalfEdge{Tail: head, Head: tail, Weight: weight},
		)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest: reading edge list: %w", err)
	}

	n := maxID + 1
	return louvain.NewGraph(n, edges)
}

// ReadSeedClustering parses the optional seed-clustering input: one
// cluster id per line, line i (0-based) giving node i's initial
// cluster. The line count must equal n, the edge list's node count.
func ReadSeedClustering(r io.Reader, n int) (*louvain.ClusterStore, error) {
	scanner := bufio.NewScanner(r)
	assign := make([]louvain.ClusterID, 0, n)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ingest: seed clustering line %d: %w", lineNo, ErrMalformedLine)
		}
		assign = append(assign, louvain.ClusterID(id))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest: reading seed clustering: %w", err)
	}
	if len(assign) != n {
		return nil, fmt.Errorf("ingest: seed clustering has %d lines, want %d: %w", len(assign), n, ErrSeedClusteringSize)
	}
	return louvain.NewClusterStore(assign), nil
}

// WriteClustering writes assignment in the output clustering format:
// one cluster id per line, in ascending node-id order.
func WriteClustering(w io.Writer, assignment []louvain.ClusterID) error {
	bw := bufio.NewWriter(w)
	for _, c := range assignment {
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return fmt.Errorf("ingest: writing clustering: %w", err)
		}
	}
	return bw.Flush()
}
