// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

// Package dataflow provides the small set of partitioned collection
// operators the local-moving kernel and meta-graph builder are expressed
// over: Partition, GroupByReduce, and Join. Each operator runs user code
// concurrently across partitions via golang.org/x/sync/errgroup and
// returns only once every partition has finished — the operator call
// itself is the synchronization barrier described by the engine's
// concurrency model. Callers never see goroutines or shared mutable
// state; every dependency between partitions is expressed as the input
// or output of one of these calls.
package dataflow

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultPartitions is used when a caller does not have a strong reason
// to pick a specific partition count.
const DefaultPartitions = 8

// Partition splits items into n roughly-equal partitions, assigning each
// item to partition keyFn(item) % n. Using a key function (rather than
// round-robin) lets callers co-locate items that will later be joined or
// grouped by the same key, mirroring how a real dataflow engine places
// partitions by a shuffle key.
func Partition[T any](items []T, n int, keyFn func(T) int) [][]T {
	if n <= 0 {
		n = 1
	}
	parts := make([][]T, n)
	for _, item := range items {
		k := keyFn(item) % n
		if k < 0 {
			k += n
		}
		parts[k] = append(parts[k], item)
	}
	return parts
}

// MapPartitions applies fn to each partition concurrently and returns the
// per-partition results in partition order. This is a barrier: it blocks
// until every partition's fn has returned (or one has failed, in which
// case the first error is returned and the others' results are
// discarded).
func MapPartitions[T, R any](ctx context.Context, parts [][]T, fn func(ctx context.Context, part []T) (R, error)) ([]R, error) {
	results := make([]R, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			r, err := fn(gctx, part)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GroupByReduce partitions items, reduces each partition locally into a
// map[K]V (accumulate), then merges the partial maps with combine. The
// merge step is the "shuffle" where partial aggregates from independent
// partitions are recombined; combine must be commutative and associative
// so the result is independent of partition count and merge order, per
// the engine's ordering guarantees.
func GroupByReduce[T any, K comparable, V any](
	ctx context.Context,
	items []T,
	n int,
	partitionKey func(T) int,
	groupKey func(T) K,
	zero V,
	accumulate func(acc V, item T) V,
	combine func(a, b V) V,
) (map[K]V, error) {
	parts := Partition(items, n, partitionKey)

	partials, err := MapPartitions(ctx, parts, func(_ context.Context, part []T) (map[K]V, error) {
		local := make(map[K]V, len(part))
		for _, item := range part {
			k := groupKey(item)
			acc, ok := local[k]
			if !ok {
				acc = zero
			}
			local[k] = accumulate(acc, item)
		}
		return local, nil
	})
	if err != nil {
		return nil, err
	}

	merged := make(map[K]V, len(partials))
	for _, partial := range partials {
		for k, v := range partial {
			if cur, ok := merged[k]; ok {
				merged[k] = combine(cur, v)
			} else {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// Join performs a partitioned lookup-join of left against a broadcast
// side reachable through lookup (in practice a small cluster-aggregate
// table, often array-indexed rather than map-indexed, so callers supply
// a resolver instead of a map). Each left partition is processed
// concurrently; emit decides the output row from the left item, the
// resolved right value, and whether it was found.
func Join[L, R, O any](
	ctx context.Context,
	left []L,
	n int,
	partitionKey func(L) int,
	lookup func(L) (R, bool),
	emit func(l L, r R, found bool) O,
) ([]O, error) {
	parts := Partition(left, n, partitionKey)

	partials, err := MapPartitions(ctx, parts, func(_ context.Context, part []L) ([]O, error) {
		out := make([]O, 0, len(part))
		for _, l := range part {
			r, ok := lookup(l)
			out = append(out, emit(l, r, ok))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range partials {
		total += len(p)
	}
	out := make([]O, 0, total)
	for _, p := range partials {
		out = append(out, p...)
	}
	return out, nil
}

// SortKeys returns the keys of m in ascending order. Several steps in the
// engine require a deterministic iteration order over a map (contraction's
// dense renumbering, tie-break scoring); this centralizes the sort so
// every caller renders the same order given the same keys.
func SortKeys[K Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Ordered constrains SortKeys to key types with a natural total order.
type Ordered interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~string
}
