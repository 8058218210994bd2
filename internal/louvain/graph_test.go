// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

func TestNewGraph_DegreeConservation(t *testing.T) {
	g := buildGraph(t, 3, []undirectedEdge{{0, 1, 2}, {1, 2, 3}})

	assert.Equal(t, int64(5), g.TotalWeight())
	assert.Equal(t, int64(2), g.Degree(0))
	assert.Equal(t, int64(5), g.Degree(1))
	assert.Equal(t, int64(3), g.Degree(2))
}

func TestNewGraph_SelfLoopCountedTwiceInDegree(t *testing.T) {
	g := buildGraph(t, 1, []undirectedEdge{{0, 0, 4}})

	assert.Equal(t, int64(8), g.Degree(0))
	assert.Equal(t, int64(4), g.SelfLoopWeight(0))
	assert.Equal(t, int64(4), g.TotalWeight())
}

func TestNewGraph_RejectsOutOfRangeNodeID(t *testing.T) {
	_, err := louvain.NewGraph(2, []louvain.HalfEdge{{Tail: 0, Head: 5, Weight: 1}})
	assert.ErrorIs(t, err, louvain.ErrNonDenseNodeIDs)
}

func TestNewGraph_RejectsOddDegreeSum(t *testing.T) {
	_, err := louvain.NewGraph(2, []louvain.HalfEdge{{Tail: 0, Head: 1, Weight: 3}})
	assert.ErrorIs(t, err, louvain.ErrDegreeMismatch)
}

func TestNewGraph_HalfEdgesGroupedByTail(t *testing.T) {
	g := buildGraph(t, 3, []undirectedEdge{{0, 1, 1}, {0, 2, 1}})

	edges := g.HalfEdges(0)
	require.Len(t, edges, 2)
	for _, e := range edges {
		assert.Equal(t, louvain.NodeID(0), e.Tail)
	}
}

func TestNewGraph_EmptyGraph(t *testing.T) {
	g, err := louvain.NewGraph(0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, int64(0), g.TotalWeight())
}
