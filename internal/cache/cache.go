// Package cache provides a fixed-capacity, insertion-ordered memoization
// cache shared by the query-embedding and classification layers.
//
// Eviction runs synchronously on insert; there is no background sweeper.
// Two policies exist on purpose: EvictOldest drops the single
// oldest-inserted key (used for query embeddings, where staleness is
// harmless and churn is high), ClearAll wipes the whole cache (used for
// classification results, a coarser reset tolerated by the classifier's
// determinism). Do not unify them.
package cache

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Policy selects the overflow behavior.
type Policy int

const (
	// EvictOldest removes the single oldest-inserted entry on overflow.
	EvictOldest Policy = iota
	// ClearAll empties the cache on overflow.
	ClearAll
)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Size      int     `json:"size"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// Cache is a bounded string-keyed memoization cache. Keys are normalized
// (trimmed, case-folded) before use. Safe for concurrent use; entries are
// written whole and never mutated in place.
type Cache[V any] struct {
	mu        sync.Mutex
	capacity  int
	policy    Policy
	entries   map[string]V
	order     []string
	hits      uint64
	misses    uint64
	evictions uint64

	total *prometheus.CounterVec
	name  string
}

// New creates a cache with the given capacity and overflow policy.
func New[V any](capacity int, policy Policy) *Cache[V] {
	return &Cache[V]{
		capacity: capacity,
		policy:   policy,
		entries:  make(map[string]V),
	}
}

// WithMetrics attaches a counter vec with labels ("cache", "result") that
// records hits and misses under the given cache name.
func (c *Cache[V]) WithMetrics(total *prometheus.CounterVec, name string) *Cache[V] {
	c.total = total
	c.name = name
	return c
}

// NormalizeKey trims surrounding whitespace and lowercases the key.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// GetOrCompute returns the cached value for key, or invokes factory,
// stores its result, and returns it. Factory errors are returned as-is
// and nothing is cached for that key.
func (c *Cache[V]) GetOrCompute(key string, factory func() (V, error)) (V, error) {
	k := NormalizeKey(key)

	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.hits++
		c.mu.Unlock()
		c.count("hit")
		return v, nil
	}
	c.misses++
	c.mu.Unlock()
	c.count("miss")

	v, err := factory()
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.insert(k, v)
	c.mu.Unlock()
	return v, nil
}

// insert stores the value and applies the overflow policy. Caller holds mu.
func (c *Cache[V]) insert(key string, value V) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = value

	if c.capacity <= 0 || len(c.entries) <= c.capacity {
		return
	}

	// Overflow: counters reset so the hit rate reflects the current
	// generation of entries, then the policy is applied.
	c.hits = 0
	c.misses = 0
	c.evictions++

	switch c.policy {
	case ClearAll:
		c.entries = make(map[string]V)
		c.order = nil
	case EvictOldest:
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Size:      len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Reset empties the cache and zeroes all counters. Intended for tests.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.order = nil
	c.hits = 0
	c.misses = 0
	c.evictions = 0
}

func (c *Cache[V]) count(result string) {
	if c.total != nil {
		c.total.WithLabelValues(c.name, result).Inc()
	}
}
