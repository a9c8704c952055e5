package buf

import (
	"fmt"
	"sync"
)

// Allocator supplies and releases the fixed-size chunks a Buffer chains its
// blocks out of. Allocate must commit nothing on failure; Deallocate must
// not panic.
//
// The default implementation, TieredPoolAllocator, is a single sync.Pool
// tier fixed at construction time rather than a ladder of well-known sizes.
type Allocator interface {
	// Allocate returns a chunk of RealSize bytes, or an error if none is
	// available.
	Allocate() ([]byte, error)
	// Deallocate releases a chunk previously returned by Allocate.
	Deallocate(chunk []byte)
	// RealSize is the fixed chunk size this allocator hands out.
	RealSize() int
}

// TieredPoolAllocator is the default Allocator: a single sync.Pool tier
// sized at construction time. A TieredPoolAllocator constructed via
// NewTieredPoolAllocator is private to whoever holds it; pass the same
// instance to multiple Buffers via NewSharedAllocator to opt into sharing
// explicitly, rather than defaulting to a process-wide pool.
type TieredPoolAllocator struct {
	size int
	pool sync.Pool
}

// NewTieredPoolAllocator creates a private allocator for chunks of size.
func NewTieredPoolAllocator(size int) *TieredPoolAllocator {
	a := &TieredPoolAllocator{size: size}
	a.pool.New = func() any {
		return make([]byte, size)
	}
	return a
}

// NewSharedAllocator is NewTieredPoolAllocator spelled out for call sites
// that intend to pass the returned Allocator to more than one Buffer.
func NewSharedAllocator(size int) Allocator {
	return NewTieredPoolAllocator(size)
}

func (a *TieredPoolAllocator) Allocate() ([]byte, error) {
	chunk, ok := a.pool.Get().([]byte)
	if !ok || len(chunk) != a.size {
		return nil, fmt.Errorf("buf: pool returned malformed chunk")
	}
	return chunk, nil
}

func (a *TieredPoolAllocator) Deallocate(chunk []byte) {
	if cap(chunk) < a.size {
		return
	}
	a.pool.Put(chunk[:a.size])
}

func (a *TieredPoolAllocator) RealSize() int { return a.size }
