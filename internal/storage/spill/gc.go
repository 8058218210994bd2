// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package spill

import (
	"sync"
	"time"

	"github.com/nodeflow-labs/louvain/internal/telemetry"
)

// discardRatio is badger's RunValueLogGC threshold: reclaim a value log
// file only once this fraction of it is stale.
const discardRatio = 0.5

// GCRunner periodically runs badger's value-log garbage collection
// against a Store's underlying database for the lifetime of a long
// engine run.
type GCRunner struct {
	store    *Store
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewGCRunner builds a GCRunner for store, running every interval.
func NewGCRunner(store *Store, interval time.Duration) *GCRunner {
	return &GCRunner{store: store, interval: interval, stop: make(chan struct{})}
}

// Start launches the GC loop in a background goroutine. It is a no-op
// if interval is zero.
func (r *GCRunner) Start() {
	if r.interval <= 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.store.db.RunValueLogGC(discardRatio); err != nil {
					telemetry.Default().Debug("spill gc: nothing to reclaim", "err", err)
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the GC loop and waits for it to exit.
func (r *GCRunner) Stop() {
	close(r.stop)
	r.wg.Wait()
}
