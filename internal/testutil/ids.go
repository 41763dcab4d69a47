package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates run IDs shaped like UUIDv7 with a counter in
// the last group: 00000000-0000-7000-8000-000000000001, ...
//
// The same sequence of runs with a fresh SequentialIDs produces the same
// IDs, which keeps stored reports and golden output byte-identical.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialIDs struct {
	mu sync.Mutex
	n  int64
}

// NewSequentialIDs creates a generator whose first ID ends in 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.n)
}
