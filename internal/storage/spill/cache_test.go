// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package spill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/storage/spill"
)

func TestSigmaCache_PutThenGetHits(t *testing.T) {
	c, err := spill.NewSigmaCache(4)
	require.NoError(t, err)

	c.Put(1, 42)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestSigmaCache_MissOnUnknownKey(t *testing.T) {
	c, err := spill.NewSigmaCache(4)
	require.NoError(t, err)

	_, ok := c.Get(99)
	assert.False(t, ok)
}

func TestSigmaCache_EvictsLeastRecentlyUsedAtCapacity(t *testing.T) {
	c, err := spill.NewSigmaCache(2)
	require.NoError(t, err)

	c.Put(1, 1)
	c.Put(2, 2)
	c.Put(3, 3) // evicts 1

	_, ok := c.Get(1)
	assert.False(t, ok)
	v, ok := c.Get(2)
	assert.True(t, ok)
	assert.Equal(t, int64(2), v)
}

func TestSigmaCache_InvalidateClearsAllEntries(t *testing.T) {
	c, err := spill.NewSigmaCache(4)
	require.NoError(t, err)

	c.Put(1, 1)
	c.Invalidate()

	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestSigmaCache_NonPositiveSizeUsesDefault(t *testing.T) {
	c, err := spill.NewSigmaCache(0)
	require.NoError(t, err)
	c.Put(1, 7)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)
}
