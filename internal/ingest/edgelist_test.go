// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package ingest_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/ingest"
	"github.com/nodeflow-labs/louvain/internal/louvain"
)

func TestReadEdgeList_ParsesWeightedUndirectedEdges(t *testing.T) {
	r := strings.NewReader("1 2 3\n2 3\n")
	g, err := ingest.ReadEdgeList(r)
	require.NoError(t, err)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, int64(3), g.Degree(0))
	assert.Equal(t, int64(4), g.Degree(1))
	assert.Equal(t, int64(1), g.Degree(2))
}

func TestReadEdgeList_SkipsBlankAndCommentLines(t *testing.T) {
	r := strings.NewReader("# header\n\n1 2\n# trailing\n")
	g, err := ingest.ReadEdgeList(r)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
}

func TestReadEdgeList_DefaultsWeightToOne(t *testing.T) {
	r := strings.NewReader("1 2\n")
	g, err := ingest.ReadEdgeList(r)
	require.NoError(t, err)
	assert.Equal(t, int64(1), g.TotalWeight())
}

func TestReadEdgeList_SelfLoopStoredOnce(t *testing.T) {
	r := strings.NewReader("1 1 4\n")
	g, err := ingest.ReadEdgeList(r)
	require.NoError(t, err)
	assert.Equal(t, int64(4), g.SelfLoopWeight(0))
	assert.Equal(t, int64(8), g.Degree(0))
}

func TestReadEdgeList_RejectsMalformedLine(t *testing.T) {
	r := strings.NewReader("1\n")
	_, err := ingest.ReadEdgeList(r)
	assert.ErrorIs(t, err, ingest.ErrMalformedLine)
}

func TestReadEdgeList_RejectsNonIntegerField(t *testing.T) {
	r := strings.NewReader("1 abc\n")
	_, err := ingest.ReadEdgeList(r)
	assert.ErrorIs(t, err, ingest.ErrMalformedLine)
}

func TestReadEdgeList_RejectsZeroNodeID(t *testing.T) {
	r := strings.NewReader("0 1\n")
	_, err := ingest.ReadEdgeList(r)
	assert.ErrorIs(t, err, ingest.ErrNodeIDOutOfRange)
}

func TestReadEdgeList_RejectsInconsistentSelfLoopWeight(t *testing.T) {
	r := strings.NewReader("1 1 2\n1 1 3\n")
	_, err := ingest.ReadEdgeList(r)
	assert.ErrorIs(t, err, ingest.ErrInconsistentSelfLoop)
}

func TestReadEdgeList_RepeatedConsistentSelfLoopAccepted(t *testing.T) {
	r := strings.NewReader("1 1 2\n1 1 2\n")
	g, err := ingest.ReadEdgeList(r)
	require.NoError(t, err)
	assert.Equal(t, int64(2), g.SelfLoopWeight(0))
}

func TestReadSeedClustering_ParsesOnePerLine(t *testing.T) {
	r := strings.NewReader("0\n0\n1\n")
	c, err := ingest.ReadSeedClustering(r, 3)
	require.NoError(t, err)
	assert.Equal(t, []louvain.ClusterID{0, 0, 1}, c.Snapshot())
}

func TestReadSeedClustering_RejectsWrongLineCount(t *testing.T) {
	r := strings.NewReader("0\n1\n")
	_, err := ingest.ReadSeedClustering(r, 3)
	assert.ErrorIs(t, err, ingest.ErrSeedClusteringSize)
}

func TestReadSeedClustering_RejectsMalformedLine(t *testing.T) {
	r := strings.NewReader("0\nnope\n")
	_, err := ingest.ReadSeedClustering(r, 2)
	assert.ErrorIs(t, err, ingest.ErrMalformedLine)
}

func TestWriteClustering_OneClusterIDPerLine(t *testing.T) {
	var buf bytes.Buffer
	err := ingest.WriteClustering(&buf, []louvain.ClusterID{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, "2\n0\n1\n", buf.String())
}
