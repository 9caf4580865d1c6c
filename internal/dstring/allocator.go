package dstring

import (
	"fmt"
	"math"
	"math/bits"
	"sync"
)

// MaxAllocation is the largest buffer either allocator hands out. Larger
// requests fail with ErrCapacityExceeded instead of reaching make.
const MaxAllocation = math.MaxInt32

// Allocator supplies and reclaims the backing buffers of Strings.
type Allocator interface {
	// Allocate returns a buffer with len(b) == n, or an error if the
	// request cannot be served. A failed Allocate must not have side effects.
	Allocate(n int) ([]byte, error)

	// Release hands a buffer back once no String references it.
	Release(b []byte)
}

// HeapAllocator allocates every buffer with make and leaves reclamation to
// the garbage collector.
type HeapAllocator struct {
	// MaxCapacity caps a single allocation. Zero means unlimited.
	MaxCapacity int
}

// DefaultAllocator is the allocator used when none is configured.
var DefaultAllocator Allocator = HeapAllocator{}

// Allocate implements Allocator.
func (a HeapAllocator) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("allocate %d bytes: %w", n, ErrRangeInvalid)
	}
	if a.MaxCapacity > 0 && n > a.MaxCapacity {
		return nil, fmt.Errorf("allocate %d bytes (max %d): %w", n, a.MaxCapacity, ErrCapacityExceeded)
	}
	if n > MaxAllocation {
		return nil, fmt.Errorf("allocate %d bytes: %w", n, ErrCapacityExceeded)
	}
	return make([]byte, n), nil
}

// Release implements Allocator.
func (HeapAllocator) Release([]byte) {}

// Pool size classes are powers of two between minPoolClass and maxPoolClass.
const (
	minPoolShift = 4
	maxPoolShift = 16

	minPoolClass = 1 << minPoolShift
	maxPoolClass = 1 << maxPoolShift
)

// PoolAllocator recycles buffers through per-size-class sync.Pools.
// Buffers larger than 64 KiB bypass the pools and are never retained.
// It is safe for concurrent use.
type PoolAllocator struct {
	pools [maxPoolShift - minPoolShift + 1]sync.Pool
}

// NewPoolAllocator creates a pool allocator.
func NewPoolAllocator() *PoolAllocator {
	p := &PoolAllocator{}
	for i := range p.pools {
		size := minPoolClass << i
		p.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return p
}

// classIndex returns the pool index for a request of n bytes, or -1 when n
// is too large to pool.
func classIndex(n int) int {
	if n > maxPoolClass {
		return -1
	}
	if n <= minPoolClass {
		return 0
	}
	return bits.Len(uint(n-1)) - minPoolShift
}

// Allocate implements Allocator.
func (p *PoolAllocator) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("allocate %d bytes: %w", n, ErrRangeInvalid)
	}
	if n > MaxAllocation {
		return nil, fmt.Errorf("allocate %d bytes: %w", n, ErrCapacityExceeded)
	}
	idx := classIndex(n)
	if idx < 0 {
		return make([]byte, n), nil
	}
	bp := p.pools[idx].Get().(*[]byte)
	return (*bp)[:n], nil
}

// Release implements Allocator. Buffers that did not come from a pool
// class are dropped.
func (p *PoolAllocator) Release(b []byte) {
	c := cap(b)
	if c < minPoolClass || c > maxPoolClass || c&(c-1) != 0 {
		return
	}
	b = b[:c]
	clear(b)
	p.pools[classIndex(c)].Put(&b)
}
