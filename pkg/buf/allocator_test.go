package buf

import (
	"errors"
	"testing"
)

var errAllocatorExhausted = errors.New("allocator: exhausted")

func TestTieredPoolAllocatorRoundTrip(t *testing.T) {
	a := NewTieredPoolAllocator(4096)

	chunk, err := a.Allocate()
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(chunk) != 4096 {
		t.Fatalf("expected 4096 bytes, got %d", len(chunk))
	}

	chunk[0] = 0xAB
	a.Deallocate(chunk)

	chunk2, err := a.Allocate()
	if err != nil {
		t.Fatalf("Allocate after Deallocate: %v", err)
	}
	if len(chunk2) != 4096 {
		t.Fatalf("expected 4096 bytes from reused chunk, got %d", len(chunk2))
	}
}

func TestTieredPoolAllocatorRealSize(t *testing.T) {
	a := NewTieredPoolAllocator(8192)
	if a.RealSize() != 8192 {
		t.Errorf("expected RealSize 8192, got %d", a.RealSize())
	}
}

func TestNewSharedAllocatorUsableByMultipleBuffers(t *testing.T) {
	shared := NewSharedAllocator(1024)

	b1, err := NewBuffer(Options{BlockSize: 1024, Allocator: shared})
	if err != nil {
		t.Fatalf("NewBuffer b1: %v", err)
	}
	defer b1.Close()

	b2, err := NewBuffer(Options{BlockSize: 1024, Allocator: shared})
	if err != nil {
		t.Fatalf("NewBuffer b2: %v", err)
	}
	defer b2.Close()

	if err := b1.AddBack([]byte("hello")); err != nil {
		t.Fatalf("AddBack b1: %v", err)
	}
	if err := b2.AddBack([]byte("world")); err != nil {
		t.Fatalf("AddBack b2: %v", err)
	}
}

// failingAllocator fails its failAt-th Allocate call and every later one,
// used to exercise AddBack/Advance rollback.
type failingAllocator struct {
	size     int
	failAt   int
	calls    int
	released int
}

func (a *failingAllocator) Allocate() ([]byte, error) {
	a.calls++
	if a.calls >= a.failAt {
		return nil, errAllocatorExhausted
	}
	return make([]byte, a.size), nil
}

func (a *failingAllocator) Deallocate(chunk []byte) { a.released++ }
func (a *failingAllocator) RealSize() int           { return a.size }
