package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator returns "<prefix>-<n>" with a counter shared across
// prefixes, starting at 1.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same sequence of operations always produces the same ids.
//
// Thread-safety: SequenceIDGenerator is safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu sync.Mutex
	n  int
}

// NewSequenceIDGenerator creates a generator whose first id ends in 1.
func NewSequenceIDGenerator() *SequenceIDGenerator {
	return &SequenceIDGenerator{}
}

// NewID returns the next id for prefix.
func (g *SequenceIDGenerator) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

// FixedIDGenerator returns predetermined ids in order, ignoring prefix.
//
// Panics if all ids have been consumed. This is a fail-fast approach to
// catch a test that creates more records than it expected.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewID returns the next predetermined id.
func (g *FixedIDGenerator) NewID(string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
