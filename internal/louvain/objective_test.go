// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package louvain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeflow-labs/louvain/internal/louvain"
)

func TestModularityObjective_CurrentClusterIsZeroBaseline(t *testing.T) {
	obj := louvain.ModularityObjective{}
	mc := &louvain.MoveContext{
		Current:        0,
		Degree:         4,
		SelfLoopWeight: 1,
		RawIncident:    map[louvain.ClusterID]int64{0: 5, 1: 2},
		SigmaTot:       louvain.MapSigmaSource{0: 10, 1: 6},
	}
	assert.Equal(t, int64(0), obj.Delta(mc, 0, 100))
}

func TestModularityObjective_Delta(t *testing.T) {
	obj := louvain.ModularityObjective{}
	mc := &louvain.MoveContext{
		Current:        0,
		Degree:         2,
		SelfLoopWeight: 0,
		RawIncident:    map[louvain.ClusterID]int64{0: 1, 1: 3},
		SigmaTot:       louvain.MapSigmaSource{0: 5, 1: 10},
	}
	assert.Equal(t, int64(66), obj.Delta(mc, 1, 20))
}

func TestModularityObjective_SelfLoopExcludedFromCurrent(t *testing.T) {
	obj := louvain.ModularityObjective{}
	withLoop := &louvain.MoveContext{
		Current:        0,
		Degree:         2,
		SelfLoopWeight: 1,
		RawIncident:    map[louvain.ClusterID]int64{0: 2, 1: 3},
		SigmaTot:       louvain.MapSigmaSource{0: 5, 1: 10},
	}
	withoutLoop := &louvain.MoveContext{
		Current:        0,
		Degree:         2,
		SelfLoopWeight: 0,
		RawIncident:    map[louvain.ClusterID]int64{0: 1, 1: 3},
		SigmaTot:       louvain.MapSigmaSource{0: 5, 1: 10},
	}
	assert.Equal(t, withoutLoop.RawIncident[1], withLoop.RawIncident[1])
	assert.Equal(t, obj.Delta(withoutLoop, 1, 20), obj.Delta(withLoop, 1, 20))
}

func TestMapEquationObjective_CurrentClusterIsZero(t *testing.T) {
	obj := louvain.MapEquationObjective{}
	mc := &louvain.MoveContext{
		Current:     0,
		Degree:      2,
		RawIncident: map[louvain.ClusterID]int64{0: 1, 1: 3},
		SigmaTot:    louvain.MapSigmaSource{0: 5, 1: 10},
	}
	assert.Equal(t, int64(0), obj.Delta(mc, 0, 20))
}

func TestMapEquationObjective_ZeroTotalWeight(t *testing.T) {
	obj := louvain.MapEquationObjective{}
	mc := &louvain.MoveContext{
		Current:     0,
		Degree:      2,
		RawIncident: map[louvain.ClusterID]int64{0: 1, 1: 3},
		SigmaTot:    louvain.MapSigmaSource{0: 5, 1: 10},
	}
	assert.Equal(t, int64(0), obj.Delta(mc, 1, 0))
}

func TestObjectiveByName(t *testing.T) {
	obj, err := louvain.ObjectiveByName("modularity")
	assert.NoError(t, err)
	assert.Equal(t, "modularity", obj.Name())

	obj, err = louvain.ObjectiveByName("map-equation")
	assert.NoError(t, err)
	assert.Equal(t, "map-equation", obj.Name())

	_, err = louvain.ObjectiveByName("nonsense")
	assert.ErrorIs(t, err, louvain.ErrUnknownObjective)
}
