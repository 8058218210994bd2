// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package spill_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nodeflow-labs/louvain/internal/storage/spill"
)

func TestGCRunner_ZeroIntervalStartIsNoOp(t *testing.T) {
	s := openTestStore(t)
	r := spill.NewGCRunner(s, 0)
	r.Start()
	r.Stop()
}

func TestGCRunner_StopTerminatesLoopPromptly(t *testing.T) {
	s := openTestStore(t)
	r := spill.NewGCRunner(s, 10*time.Millisecond)
	r.Start()

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("GCRunner.Stop did not return in time")
	}
	require.True(t, true)
}
