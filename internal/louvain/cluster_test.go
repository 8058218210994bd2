// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

func TestNewSingletonClusters(t *testing.T) {
	c := louvain.NewSingletonClusters(4)
	for v := 0; v < 4; v++ {
		assert.Equal(t, louvain.ClusterID(v), c.Get(louvain.NodeID(v)))
	}
	assert.Equal(t, 4, c.DistinctCount())
}

func TestClusterStore_SetGet(t *testing.T) {
	c := louvain.NewSingletonClusters(3)
	c.Set(1, 0)
	assert.Equal(t, louvain.ClusterID(0), c.Get(1))
	assert.Equal(t, 2, c.DistinctCount())
}

func TestClusterStore_CompactIsDenseAndFirstAppearanceOrdered(t *testing.T) {
	c := louvain.NewClusterStore([]louvain.ClusterID{7, 7, 3, 9, 3})
	k := c.Compact()

	require.Equal(t, 3, k)
	got := c.Snapshot()
	assert.Equal(t, []louvain.ClusterID{0, 0, 1, 2, 1}, got)
}

func TestClusterStore_CompactIsIdempotent(t *testing.T) {
	c := louvain.NewClusterStore([]louvain.ClusterID{7, 7, 3, 9, 3})
	c.Compact()
	first := c.Snapshot()
	c.Compact()
	assert.Equal(t, first, c.Snapshot())
}

func TestClusterStore_Rewrite(t *testing.T) {
	c := louvain.NewClusterStore([]louvain.ClusterID{0, 1, 1})
	c.Rewrite(map[louvain.ClusterID]louvain.ClusterID{0: 10, 1: 20})
	assert.Equal(t, []louvain.ClusterID{10, 20, 20}, c.Snapshot())
}

func TestClusterStore_SnapshotIsIndependentCopy(t *testing.T) {
	c := louvain.NewSingletonClusters(2)
	snap := c.Snapshot()
	c.Set(0, 99)
	assert.Equal(t, louvain.ClusterID(0), snap[0])
	assert.Equal(t, louvain.ClusterID(99), c.Get(0))
}
