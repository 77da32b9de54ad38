// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU a LRU cache extends golang-lru with loader and hit/miss stats.
type LRU struct {
	*lru.Cache
	stats Stats
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU(maxSize int) (*LRU, error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: cache}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.stats.Hit()
		return v, nil
	}
	l.stats.Miss()
	v, err := loader(key)
	if err != nil {
		return nil, err
	}

	l.Add(key, v)
	return v, nil
}

// Stats returns the hit/miss stats of GetOrLoad.
func (l *LRU) Stats() *Stats {
	return &l.stats
}

// Stats counts GetOrLoad hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille at the last Stats call
	lastRate atomic.Int32
}

func (cs *Stats) Hit()  { cs.hit.Add(1) }
func (cs *Stats) Miss() { cs.miss.Add(1) }

// Stats returns the counters, and whether the hit rate moved by at least
// one permille since the previous call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.hit.Load(), cs.miss.Load()
	var rate int32
	if total := hit + miss; total > 0 {
		rate = int32(hit * 1000 / total)
	}
	return cs.lastRate.Swap(rate) != rate, hit, miss
}
