package domain

import (
	"sort"
	"time"
)

// Tally accumulates durations per key and remembers the order in which keys
// first appeared. Presentation code sorts explicitly with Sorted; nothing
// relies on map iteration order.
type Tally[K comparable] struct {
	keys   []K
	values map[K]time.Duration
}

// NewTally returns an empty Tally.
func NewTally[K comparable]() *Tally[K] {
	return &Tally[K]{values: make(map[K]time.Duration)}
}

// Add adds d to the value stored under k.
func (t *Tally[K]) Add(k K, d time.Duration) {
	if t.values == nil {
		t.values = make(map[K]time.Duration)
	}
	if _, ok := t.values[k]; !ok {
		t.keys = append(t.keys, k)
	}
	t.values[k] += d
}

// Get returns the accumulated duration for k, or zero.
func (t *Tally[K]) Get(k K) time.Duration {
	return t.values[k]
}

// Len returns the number of distinct keys.
func (t *Tally[K]) Len() int {
	return len(t.keys)
}

// Keys returns keys in first-appearance order.
func (t *Tally[K]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}

// Sorted returns keys ordered by less. Ties keep first-appearance order.
func (t *Tally[K]) Sorted(less func(a, b K) bool) []K {
	out := t.Keys()
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Sum returns the total across all keys.
func (t *Tally[K]) Sum() time.Duration {
	var total time.Duration
	for _, v := range t.values {
		total += v
	}
	return total
}
