package grid

import (
	"fmt"
	"sync"
)

// EdgeHandle identifies a slot in an EdgeArena. Rows that hold equal handles
// physically share one BinEdges; this is the identity used by SharedEdges and
// the fast path of CommonBoundaries.
type EdgeHandle uint32

type arenaSlot struct {
	edges *BinEdges
	refs  int
}

// EdgeArena owns the BinEdges referenced by the rows of a grid. Each slot is
// reference counted: Retain adds a reference, Release drops one and recycles
// the slot once no row refers to it.
//
// Slots are never mutated while shared. Replace swaps the BinEdges in place
// only when the caller holds the sole reference, and otherwise allocates a
// fresh slot (copy-on-write).
type EdgeArena struct {
	mu    sync.RWMutex
	slots []arenaSlot
	free  []EdgeHandle
}

// NewEdgeArena returns an empty arena.
func NewEdgeArena() *EdgeArena {
	return &EdgeArena{}
}

// Add stores e in a new slot with one reference.
func (a *EdgeArena) Add(e *BinEdges) EdgeHandle {
	if e == nil {
		panic("grid: nil BinEdges added to arena")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addLocked(e)
}

func (a *EdgeArena) addLocked(e *BinEdges) EdgeHandle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = arenaSlot{edges: e, refs: 1}
		return h
	}
	a.slots = append(a.slots, arenaSlot{edges: e, refs: 1})
	return EdgeHandle(len(a.slots) - 1)
}

// Retain adds a reference to h and returns it.
func (a *EdgeArena) Retain(h EdgeHandle) EdgeHandle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustLive(h)
	a.slots[h].refs++
	return h
}

// Release drops a reference to h. The slot is recycled when its count
// reaches zero.
func (a *EdgeArena) Release(h EdgeHandle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked(h)
}

func (a *EdgeArena) releaseLocked(h EdgeHandle) {
	a.mustLive(h)
	a.slots[h].refs--
	if a.slots[h].refs == 0 {
		a.slots[h].edges = nil
		a.free = append(a.free, h)
	}
}

// Replace gives the holder of h a handle to e. If h is the only reference the
// slot is reused; otherwise h is released and a new slot is allocated, so
// other holders of h keep seeing the old edges.
func (a *EdgeArena) Replace(h EdgeHandle, e *BinEdges) EdgeHandle {
	if e == nil {
		panic("grid: nil BinEdges replaced into arena")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mustLive(h)
	if a.slots[h].refs == 1 {
		a.slots[h].edges = e
		return h
	}
	a.releaseLocked(h)
	return a.addLocked(e)
}

// Get returns the edges stored at h.
func (a *EdgeArena) Get(h EdgeHandle) *BinEdges {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.mustLive(h)
	return a.slots[h].edges
}

// Refs returns the reference count of h, or 0 if h is not live.
func (a *EdgeArena) Refs(h EdgeHandle) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(h) >= len(a.slots) {
		return 0
	}
	return a.slots[h].refs
}

// Live returns the number of slots currently in use.
func (a *EdgeArena) Live() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots) - len(a.free)
}

func (a *EdgeArena) mustLive(h EdgeHandle) {
	if int(h) >= len(a.slots) || a.slots[h].refs == 0 {
		panic(fmt.Sprintf("grid: edge handle %d is not live", h))
	}
}
