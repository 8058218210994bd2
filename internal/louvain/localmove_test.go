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

func TestRunLocalMoving_MergesConnectedTriangle(t *testing.T) {
	g := buildGraph(t, 3, []undirectedEdge{{0, 1, 1}, {1, 2, 1}, {0, 2, 1}})
	clusters := louvain.NewSingletonClusters(3)

	result, err := louvain.RunLocalMoving(context.Background(), g, clusters, louvain.LocalMoveOptions{
		Objective: louvain.ModularityObjective{},
	})
	require.NoError(t, err)

	assert.True(t, result.AnyNodeMoved)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, clusters.DistinctCount())
}

func TestRunLocalMoving_EmptyGraphNoOp(t *testing.T) {
	g, err := louvain.NewGraph(0, nil)
	require.NoError(t, err)
	clusters := louvain.NewSingletonClusters(0)

	result, err := louvain.RunLocalMoving(context.Background(), g, clusters, louvain.LocalMoveOptions{
		Objective: louvain.ModularityObjective{},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Iterations)
	assert.False(t, result.AnyNodeMoved)
}

func TestRunLocalMoving_AlreadyOptimalSeedDoesNotMove(t *testing.T) {
	g := buildGraph(t, 6, []undirectedEdge{
		{0, 1, 1}, {0, 2, 1}, {1, 2, 1},
		{3, 4, 1}, {3, 5, 1}, {4, 5, 1},
	})
	clusters := louvain.NewClusterStore([]louvain.ClusterID{0, 0, 0, 1, 1, 1})

	result, err := louvain.RunLocalMoving(context.Background(), g, clusters, louvain.LocalMoveOptions{
		Objective: louvain.ModularityObjective{},
	})
	require.NoError(t, err)

	assert.False(t, result.AnyNodeMoved)
	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, 2, clusters.DistinctCount())
}

func TestRunLocalMoving_RequiresObjective(t *testing.T) {
	g := buildGraph(t, 2, []undirectedEdge{{0, 1, 1}})
	clusters := louvain.NewSingletonClusters(2)

	_, err := louvain.RunLocalMoving(context.Background(), g, clusters, louvain.LocalMoveOptions{})
	require.Error(t, err)
}

func TestRunLocalMoving_RespectsMaxIterations(t *testing.T) {
	g := buildGraph(t, 4, []undirectedEdge{{0, 1, 10}, {1, 2, 1}, {2, 3, 10}})
	clusters := louvain.NewSingletonClusters(4)

	result, err := louvain.RunLocalMoving(context.Background(), g, clusters, louvain.LocalMoveOptions{
		Objective:     louvain.ModularityObjective{},
		MaxIterations: 1,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Iterations, 1)
}

func TestRunLocalMoving_DeterministicAcrossRepeatedRuns(t *testing.T) {
	edges := []undirectedEdge{{0, 1, 10}, {0, 2, 1}, {2, 3, 10}, {1, 2, 1}}

	g1 := buildGraph(t, 4, edges)
	c1 := louvain.NewSingletonClusters(4)
	r1, err := louvain.RunLocalMoving(context.Background(), g1, c1, louvain.LocalMoveOptions{
		Objective: louvain.ModularityObjective{},
	})
	require.NoError(t, err)

	g2 := buildGraph(t, 4, edges)
	c2 := louvain.NewSingletonClusters(4)
	r2, err := louvain.RunLocalMoving(context.Background(), g2, c2, louvain.LocalMoveOptions{
		Objective: louvain.ModularityObjective{},
	})
	require.NoError(t, err)

	assert.Equal(t, c1.Snapshot(), c2.Snapshot())
	assert.Equal(t, r1.Iterations, r2.Iterations)
}
