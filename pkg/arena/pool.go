package arena

import "sync"

// PoolStats is a snapshot of pool traffic, for the metrics layer.
type PoolStats struct {
	Acquires uint64 // total Acquire calls
	Hits     uint64 // acquires served from the free list
	Misses   uint64 // acquires that allocated a fresh arena
	Idle     int    // arenas currently on the free list
}

// Pool is a free list of arenas for reuse across operations. An acquired
// arena is exclusively owned by its caller until released; the free list
// itself is the only shared structure and is guarded by a mutex. The pool
// bounds idle arenas only, never concurrency: Acquire always returns an
// arena, allocating when the list is empty.
type Pool struct {
	mu       sync.Mutex
	free     []*Arena
	capacity int // backing capacity for fresh arenas
	maxIdle  int
	stats    PoolStats
}

// DefaultMaxIdle caps the free list when no explicit bound is given.
const DefaultMaxIdle = 16

// NewPool creates a pool whose fresh arenas have the given backing
// capacity (DefaultCapacity if non-positive) and that keeps at most
// maxIdle arenas on the free list (DefaultMaxIdle if non-positive).
func NewPool(capacity, maxIdle int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	return &Pool{capacity: capacity, maxIdle: maxIdle}
}

// Acquire pops a pooled arena, resetting it, or allocates a fresh one.
func (p *Pool) Acquire() *Arena {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.Acquires++
	if n := len(p.free); n > 0 {
		a := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		p.stats.Hits++
		a.Reset()
		return a
	}
	p.stats.Misses++
	return New(p.capacity)
}

// Release returns an arena to the free list. Arenas beyond the idle bound
// are dropped for the collector; oversized arenas are shrunk back to their
// steady-state footprint first.
func (p *Pool) Release(a *Arena) {
	if a == nil {
		return
	}
	a.ShrinkToInitial()
	a.Reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.maxIdle {
		p.free = append(p.free, a)
	}
}

// Stats returns a snapshot of pool traffic.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.stats
	s.Idle = len(p.free)
	return s
}
