package ptrie

import "sync/atomic"

// Allocator is the byte-accounting hook a heapStore uses on every node
// allocation and deallocation. Grounded on
// original_source/include/utxx/memstat_alloc.hpp, the counting allocator
// the original test suite used to assert that clear() releases every byte
// it claimed (spec.md §8, "Clear releases everything").
type Allocator interface {
	Alloc(size int)
	Free(size int)
	Live() int64
}

// CountingAllocator is the default Allocator: it does not actually manage
// memory (Go's GC does that), it only tracks a live-byte counter so tests
// can assert the counter returns to its pre-build value after Clear.
type CountingAllocator struct {
	live int64
}

// NewCountingAllocator returns a zeroed CountingAllocator.
func NewCountingAllocator() *CountingAllocator {
	return &CountingAllocator{}
}

func (a *CountingAllocator) Alloc(size int) {
	atomic.AddInt64(&a.live, int64(size))
}

func (a *CountingAllocator) Free(size int) {
	atomic.AddInt64(&a.live, -int64(size))
}

func (a *CountingAllocator) Live() int64 {
	return atomic.LoadInt64(&a.live)
}
