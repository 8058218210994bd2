// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package spill is the disk-backed materialization fallback for a
// level's half-edge list and per-iteration cluster-assignment
// snapshots, for levels whose working set exceeds the configured
// in-memory threshold. It wraps github.com/dgraph-io/badger/v4 the way
// the spill store's upstream contract does: an in-memory mode for tests
// and small graphs, a path-backed mode for anything spilled to disk,
// and context-aware transaction helpers.
package spill

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config configures a Store.
type Config struct {
	// InMemory opens badger's in-memory mode; Path is ignored.
	InMemory bool

	// Path is the on-disk directory badger writes to when InMemory is
	// false. Required in that case.
	Path string

	// SyncWrites forces an fsync on every commit. Default: false (the
	// engine tolerates losing an in-flight level's spill on crash; the
	// level simply reruns).
	SyncWrites bool

	// GCInterval is the value-log garbage-collection interval that
	// DefaultConfig fills in. Open does not read it: garbage collection
	// runs only under a GCRunner, which takes its own interval.
	GCInterval time.Duration
}

// DefaultConfig returns a path-backed configuration suitable for a real
// spill directory.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: false, GCInterval: 5 * time.Minute}
}

// InMemoryConfig returns a configuration for tests and small graphs
// that never spill.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store is a badger-backed key/value store scoped to one engine run's
// spill directory.
type Store struct {
	db *badger.DB
}

// Open opens a Store per cfg.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, fmt.Errorf("spill: path is required when InMemory is false")
	}
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("spill: open: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a Store that never touches disk.
func OpenInMemory() (*Store, error) { return Open(InMemoryConfig()) }

// OpenWithPath opens a Store persisted under dir.
func OpenWithPath(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("spill: mkdir %s: %w", dir, err)
	}
	return Open(DefaultConfig(dir))
}

// Close releases the underlying badger database.
func (s *Store) Close() error { return s.db.Close() }

// WithTxn runs fn in a read-write badger transaction, committing on a
// nil return and discarding on error. It aborts before starting if ctx
// is already done.
func (s *Store) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("spill: context cancelled: %w", err)
	}
	return s.db.Update(fn)
}

// WithReadTxn runs fn in a read-only badger transaction.
func (s *Store) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("spill: context cancelled: %w", err)
	}
	return s.db.View(fn)
}

func levelKey(level int, suffix string) []byte {
	return []byte(fmt.Sprintf("level/%d/%s", level, suffix))
}

// PutEdges spills a level's half-edge list under a key scoped to level.
// tails, heads, and weights are parallel slices (the caller's HalfEdge
// fields split apart so this package stays free of any engine type),
// fixed-width encoded so decoding needs no schema.
func (s *Store) PutEdges(ctx context.Context, level int, tails, heads []uint32, weights []int64) error {
	if len(tails) != len(heads) || len(tails) != len(weights) {
		return fmt.Errorf("spill: PutEdges: mismatched slice lengths")
	}
	buf := make([]byte, len(tails)*20)
	for i := range tails {
		off := i * 20
		binary.BigEndian.PutUint32(buf[off:], tails[i])
		binary.BigEndian.PutUint32(buf[off+4:], heads[i])
		binary.BigEndian.PutUint64(buf[off+8:], uint64(weights[i]))
	}
	key := levelKey(level, "edges")
	return s.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// GetEdges retrieves a level's half-edge list previously spilled by
// PutEdges, as parallel tails/heads/weights slices.
func (s *Store) GetEdges(ctx context.Context, level int) (tails, heads []uint32, weights []int64, err error) {
	key := levelKey(level, "edges")
	err = s.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val)%20 != 0 {
				return fmt.Errorf("spill: corrupt edge record for level %d", level)
			}
			n := len(val) / 20
			tails = make([]uint32, n)
			heads = make([]uint32, n)
			weights = make([]int64, n)
			for i := 0; i < n; i++ {
				off := i * 20
				tails[i] = binary.BigEndian.Uint32(val[off:])
				heads[i] = binary.BigEndian.Uint32(val[off+4:])
				weights[i] = int64(binary.BigEndian.Uint64(val[off+8:]))
			}
			return nil
		})
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("spill: get edges for level %d: %w", level, err)
	}
	return tails, heads, weights, nil
}

// PutClusterSnapshot spills one iteration's cluster assignment snapshot
// (assign[v] is v's cluster id as a raw uint32).
func (s *Store) PutClusterSnapshot(ctx context.Context, level, iteration int, assign []uint32) error {
	buf := make([]byte, len(assign)*4)
	for i, c := range assign {
		binary.BigEndian.PutUint32(buf[i*4:], c)
	}
	key := levelKey(level, fmt.Sprintf("snapshot/%d", iteration))
	return s.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// GetClusterSnapshot retrieves a previously spilled cluster snapshot.
func (s *Store) GetClusterSnapshot(ctx context.Context, level, iteration int) ([]uint32, error) {
	key := levelKey(level, fmt.Sprintf("snapshot/%d", iteration))
	var assign []uint32
	err := s.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			assign = make([]uint32, len(val)/4)
			for i := range assign {
				assign[i] = binary.BigEndian.Uint32(val[i*4:])
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("spill: get snapshot for level %d iteration %d: %w", level, iteration, err)
	}
	return assign, nil
}
