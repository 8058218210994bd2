// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

func TestContract_MergeIntoSelfLoopPreservesWeight(t *testing.T) {
	g := buildGraph(t, 2, []undirectedEdge{{0, 1, 5}})
	clusters := louvain.NewClusterStore([]louvain.ClusterID{0, 0})

	result, err := louvain.Contract(context.Background(), g, clusters, 0)
	require.NoError(t, err)

	meta := result.Graph
	assert.Equal(t, 1, meta.NodeCount())
	assert.Equal(t, g.TotalWeight(), meta.TotalWeight())

	node := result.NodeOf[0]
	assert.Equal(t, int64(5), meta.SelfLoopWeight(node))
	assert.Equal(t, int64(10), meta.Degree(node))
}

func TestContract_CrossClusterEdgesAggregate(t *testing.T) {
	g := buildGraph(t, 4, []undirectedEdge{
		{0, 1, 3}, {2, 3, 4}, {1, 2, 2},
	})
	clusters := louvain.NewClusterStore([]louvain.ClusterID{0, 0, 1, 1})

	result, err := louvain.Contract(context.Background(), g, clusters, 0)
	require.NoError(t, err)

	meta := result.Graph
	assert.Equal(t, 2, meta.NodeCount())
	assert.Equal(t, g.TotalWeight(), meta.TotalWeight())

	n0 := result.NodeOf[0]
	n1 := result.NodeOf[1]
	assert.Equal(t, int64(3), meta.SelfLoopWeight(n0))
	assert.Equal(t, int64(4), meta.SelfLoopWeight(n1))

	var crossWeight int64
	for _, e := range meta.HalfEdges(n0) {
		if e.Head == n1 {
			crossWeight = e.Weight
		}
	}
	assert.Equal(t, int64(2), crossWeight)
}

func TestContract_SingletonClustersPreserveGraphShape(t *testing.T) {
	g := buildGraph(t, 3, []undirectedEdge{{0, 1, 1}, {1, 2, 1}})
	clusters := louvain.NewSingletonClusters(3)

	result, err := louvain.Contract(context.Background(), g, clusters, 0)
	require.NoError(t, err)

	assert.Equal(t, g.NodeCount(), result.Graph.NodeCount())
	assert.Equal(t, g.TotalWeight(), result.Graph.TotalWeight())
	assert.Equal(t, g.EdgeCount(), result.Graph.EdgeCount())
}
