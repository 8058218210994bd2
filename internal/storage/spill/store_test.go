// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package spill_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/storage/spill"
)

func openTestStore(t *testing.T) *spill.Store {
	t.Helper()
	s, err := spill.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGetEdgesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tails := []uint32{0, 1}
	heads := []uint32{1, 0}
	weights := []int64{5, 5}

	require.NoError(t, s.PutEdges(ctx, 3, tails, heads, weights))

	gotTails, gotHeads, gotWeights, err := s.GetEdges(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, tails, gotTails)
	assert.Equal(t, heads, gotHeads)
	assert.Equal(t, weights, gotWeights)
}

func TestStore_GetEdgesUnknownLevelErrors(t *testing.T) {
	s := openTestStore(t)
	_, _, _, err := s.GetEdges(context.Background(), 99)
	assert.Error(t, err)
}

func TestStore_PutGetClusterSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	assign := []uint32{0, 0, 1, 2}
	require.NoError(t, s.PutClusterSnapshot(ctx, 1, 0, assign))

	got, err := s.GetClusterSnapshot(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, assign, got)
}

func TestStore_DistinctLevelsDoNotCollide(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutClusterSnapshot(ctx, 0, 0, []uint32{1}))
	require.NoError(t, s.PutClusterSnapshot(ctx, 1, 0, []uint32{2}))

	got0, err := s.GetClusterSnapshot(ctx, 0, 0)
	require.NoError(t, err)
	got1, err := s.GetClusterSnapshot(ctx, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, []uint32{1}, got0)
	assert.Equal(t, []uint32{2}, got1)
}

func TestStore_PutEdgesRejectsMismatchedSliceLengths(t *testing.T) {
	s := openTestStore(t)
	err := s.PutEdges(context.Background(), 0, []uint32{1}, []uint32{1, 2}, []int64{1})
	assert.Error(t, err)
}

func TestOpen_RequiresPathWhenNotInMemory(t *testing.T) {
	_, err := spill.Open(spill.Config{InMemory: false, Path: ""})
	assert.Error(t, err)
}
