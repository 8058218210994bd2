// Copyright (c) 2026 Nodeflow Labs
// Licensed under the Apache License, Version 2.0.

package spill

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSigmaCacheSize is the default bounded size of a SigmaCache.
const DefaultSigmaCacheSize = 4096

// SigmaCache is a bounded LRU cache of (cluster id -> sigma_tot)
// lookups, fronting the re-join step of a local-moving sub-round (§4.4
// step 1) so a high-degree node probing the same handful of clusters
// repeatedly does not force a map rebuild each time. Cluster ids are
// taken as a raw uint32 so this package stays free of any engine type.
type SigmaCache struct {
	cache *lru.Cache[uint32, int64]
}

// NewSigmaCache builds a SigmaCache holding at most size entries.
func NewSigmaCache(size int) (*SigmaCache, error) {
	if size <= 0 {
		size = DefaultSigmaCacheSize
	}
	c, err := lru.New[uint32, int64](size)
	if err != nil {
		return nil, err
	}
	return &SigmaCache{cache: c}, nil
}

// Get returns the cached sigma_tot for cluster id c, if present.
func (s *SigmaCache) Get(c uint32) (int64, bool) {
	return s.cache.Get(c)
}

// Put caches sigma_tot for cluster id c, evicting the least-recently-used
// entry if the cache is full.
func (s *SigmaCache) Put(c uint32, sigma int64) {
	s.cache.Add(c, sigma)
}

// Invalidate drops every cached entry, used at the start of each
// sub-round since sigma_tot is only valid for the snapshot it was
// computed against.
func (s *SigmaCache) Invalidate() {
	s.cache.Purge()
}
