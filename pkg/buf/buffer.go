package buf

import "fmt"

// IOVec is a single scatter/gather descriptor, shaped to convert trivially
// to net.Buffers for a vectored net.Conn.Write or to a syscall.Iovec-style
// array for a raw writev.
type IOVec struct {
	Base []byte
	Len  int
}

// Bytes returns the live portion of the descriptor.
func (v IOVec) Bytes() []byte { return v.Base[:v.Len] }

// Buffer is a chunked, append-biased byte container: a linked sequence of
// fixed-size blocks pulled from an Allocator, with live Iterators that
// survive growth and mid-buffer Insert/Release. It is a single-owner,
// non-thread-safe type.
type Buffer struct {
	alloc    Allocator
	dataSize int

	blocks blockList
	iters  list[*Iterator]

	nextID uint64

	// beginOff is the offset of the first live byte within blocks.Front();
	// endOff is the offset one past the last live byte within
	// blocks.Back(). The buffer is empty when Front()==Back() and
	// beginOff==endOff.
	beginOff int
	endOff   int
}

// NewBuffer creates a Buffer with a single, empty block.
func NewBuffer(opts Options) (*Buffer, error) {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.BlockSize&(opts.BlockSize-1) != 0 {
		return nil, fmt.Errorf("buf: block size must be a power of two, got %d", opts.BlockSize)
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = NewTieredPoolAllocator(opts.BlockSize)
	}

	b := &Buffer{alloc: alloc, dataSize: alloc.RealSize()}
	if _, err := b.newBlockInto(&b.blocks); err != nil {
		return nil, err
	}
	return b, nil
}

// Close releases every block back to the allocator. The Buffer must not be
// used afterwards. Any iterators still registered are left dangling;
// callers are expected to Close their own iterators first.
func (b *Buffer) Close() {
	for b.blocks.Len() > 0 {
		blk := b.blocks.Front()
		b.blocks.Remove(blk)
		b.alloc.Deallocate(blk.data)
	}
}

// Begin returns a new Iterator at the first live byte.
func (b *Buffer) Begin() *Iterator {
	return newIterator(b, b.blocks.Front(), b.beginOff, true)
}

// End returns a new Iterator one past the last live byte.
func (b *Buffer) End() *Iterator {
	return newIterator(b, b.blocks.Back(), b.endOff, false)
}

// Empty reports whether the buffer holds zero bytes.
func (b *Buffer) Empty() bool {
	return b.blocks.Front() == b.blocks.Back() && b.beginOff == b.endOff
}

// BlockSize returns N, the fixed usable size of every block.
func (b *Buffer) BlockSize() int { return b.dataSize }

func (b *Buffer) newBlockInto(dest *blockList) (*block, error) {
	chunk, err := b.alloc.Allocate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	blk := &block{id: b.nextID, data: chunk}
	b.nextID++
	dest.PushBack(blk)
	return blk, nil
}

// rollback releases every block pending still owns and rewinds nextID by
// the same count, restoring the buffer to its pre-call state. This is an
// explicit scope-guard standing in for a destructor-driven unwind in
// languages with RAII; called from a defer on every AddBack/Advance failure
// path.
func (b *Buffer) rollback(pending *blockList) {
	for pending.Len() > 0 {
		blk := pending.Front()
		pending.Remove(blk)
		b.alloc.Deallocate(blk.data)
		b.nextID--
	}
}

// AddBack appends data to the tail, allocating blocks as needed. On
// failure the buffer is left exactly as it was (strong exception safety).
func (b *Buffer) AddBack(data []byte) error {
	size := len(data)
	if size == 0 {
		return nil
	}

	tail := b.blocks.Back()
	leftInBlock := tail.size() - b.endOff
	if leftInBlock > size {
		copy(tail.data[b.endOff:], data)
		b.endOff += size
		return nil
	}

	var pending blockList
	committed := false
	defer func() {
		if !committed {
			b.rollback(&pending)
		}
	}()

	dst, dstOff := tail, b.endOff
	remaining := size
	for {
		n := leftInBlock
		copy(dst.data[dstOff:dstOff+n], data[:n])
		data = data[n:]
		remaining -= n

		nb, err := b.newBlockInto(&pending)
		if err != nil {
			return fmt.Errorf("buf: addback: %w", err)
		}
		dst, dstOff = nb, 0
		leftInBlock = b.dataSize
		if remaining < leftInBlock {
			break
		}
	}
	copy(dst.data[dstOff:dstOff+remaining], data[:remaining])

	b.blocks.SpliceBack(&pending)
	b.endOff = dstOff + remaining
	committed = true
	return nil
}

// AddBackString appends s as bytes, sparing the caller the []byte
// conversion.
func (b *Buffer) AddBackString(s string) error {
	return b.AddBack([]byte(s))
}

// Advance reserves size uninitialized bytes at the tail, allocating blocks
// as needed. Used internally by Insert; exposed because callers who will
// immediately Set the reserved region don't need AddBack's copy.
func (b *Buffer) Advance(size int) error {
	if size <= 0 {
		return nil
	}

	tail := b.blocks.Back()
	leftInBlock := tail.size() - b.endOff
	if leftInBlock > size {
		b.endOff += size
		return nil
	}

	var pending blockList
	committed := false
	defer func() {
		if !committed {
			b.rollback(&pending)
		}
	}()

	dstOff := 0
	remaining := size
	for {
		remaining -= leftInBlock
		if _, err := b.newBlockInto(&pending); err != nil {
			return fmt.Errorf("buf: advance: %w", err)
		}
		leftInBlock = b.dataSize
		if remaining < leftInBlock {
			break
		}
	}

	b.blocks.SpliceBack(&pending)
	b.endOff = dstOff + remaining
	committed = true
	return nil
}

// DropFront frees size bytes from the head, freeing whole blocks as they
// are consumed. In Debug builds it panics if a live iterator still points
// into a block about to be freed.
func (b *Buffer) DropFront(size int) {
	if size == 0 {
		return
	}

	blk := b.blocks.Front()
	leftInBlock := blk.size() - b.beginOff
	for size > leftInBlock {
		if Debug && !b.iters.Empty() && b.iters.Front().blk == blk {
			panic("buf: DropFront would invalidate a live iterator")
		}
		next := blk.link.next
		b.blocks.Remove(blk)
		b.alloc.Deallocate(blk.data)
		blk = next
		b.beginOff = 0
		size -= leftInBlock
		leftInBlock = b.dataSize
	}
	b.beginOff += size
}

// DropBack frees size bytes from the tail, freeing whole blocks as they are
// consumed. Each freed block is the most recently allocated one still
// present, so nextID is rewound along with it, symmetric with the
// allocation-failure rollback in AddBack/Advance, and required for
// DebugSelfCheck's id-contiguity check to hold after a drop. DropFront never
// does this: blocks freed from the head are the oldest ones, and rewinding
// the id counter there would let a future append collide with an id still
// live further down the chain.
func (b *Buffer) DropBack(size int) {
	if size == 0 {
		return
	}

	blk := b.blocks.Back()
	leftInBlock := b.endOff
	for size > leftInBlock {
		if Debug && !b.iters.Empty() && b.iters.Back().blk == blk {
			panic("buf: DropBack would invalidate a live iterator")
		}
		prev := blk.link.prev
		b.blocks.Remove(blk)
		b.alloc.Deallocate(blk.data)
		b.nextID--
		blk = prev
		b.endOff = blk.size()
		size -= leftInBlock
		leftInBlock = b.dataSize
	}
	b.endOff -= size
}

// Insert opens a size-byte hole at it, shifting everything from it onward
// toward the tail. size must be smaller than a block's data area; larger
// holes are rejected outright with ErrInsertTooLarge rather than left as an
// implicit precondition.
func (b *Buffer) Insert(it *Iterator, size int) error {
	if Debug && it.buf != b {
		panic("buf: iterator belongs to a different buffer")
	}
	if size <= 0 {
		return nil
	}
	if size >= b.dataSize {
		return ErrInsertTooLarge
	}

	srcBlockBegin := func(blk *block) int {
		if blk == it.blk {
			return it.offset
		}
		return 0
	}

	srcBlock := b.blocks.Back()
	srcBlockEndOff := b.endOff
	if err := b.Advance(size); err != nil {
		return err
	}
	dstBlock := b.blocks.Back()

	leftInDstBlock := b.endOff
	leftInSrcBlock := srcBlockEndOff - srcBlockBegin(srcBlock)

	var src, dst int
	if leftInDstBlock > leftInSrcBlock {
		src = srcBlockBegin(srcBlock)
		dst = b.endOff - leftInSrcBlock
	} else {
		src = srcBlockEndOff - leftInDstBlock
		dst = 0
	}
	copyChunk := leftInSrcBlock
	if leftInDstBlock < copyChunk {
		copyChunk = leftInDstBlock
	}

	for {
		copy(dstBlock.data[dst:dst+copyChunk], srcBlock.data[src:src+copyChunk])
		if leftInDstBlock > leftInSrcBlock {
			leftInDstBlock -= copyChunk
			if srcBlock == it.blk {
				break
			}
			srcBlock = srcBlock.link.prev
			src = srcBlock.size() - leftInDstBlock
			leftInSrcBlock = srcBlock.size() - srcBlockBegin(srcBlock)
			dst = 0
			copyChunk = leftInDstBlock
		} else {
			leftInSrcBlock -= copyChunk
			dstBlock = dstBlock.link.prev
			dst = dstBlock.size() - leftInSrcBlock
			leftInDstBlock = b.dataSize
			src = srcBlockBegin(srcBlock)
			copyChunk = leftInSrcBlock
		}
	}

	for tmp := b.iters.Back(); tmp != it; tmp = tmp.link.prev {
		tmp.moveForward(size)
	}
	return nil
}

// Release closes a size-byte hole starting at it, shifting everything after
// it toward the head, then drops the now-unused tail region.
func (b *Buffer) Release(it *Iterator, size int) error {
	if Debug && it.buf != b {
		panic("buf: iterator belongs to a different buffer")
	}
	if size <= 0 {
		return nil
	}

	srcBlock, srcOff := it.blk, it.offset
	step := size
	for step >= srcBlock.size()-srcOff {
		step -= srcBlock.size() - srcOff
		srcBlock = srcBlock.link.next
		srcOff = 0
	}
	srcOff += step

	dstBlock, dstOff := it.blk, it.offset

	leftInDstBlock := dstBlock.size() - dstOff
	leftInSrcBlock := srcBlock.size() - srcOff
	copyChunk := leftInSrcBlock
	if leftInDstBlock < copyChunk {
		copyChunk = leftInDstBlock
	}

	for {
		copy(dstBlock.data[dstOff:dstOff+copyChunk], srcBlock.data[srcOff:srcOff+copyChunk])
		if leftInDstBlock > leftInSrcBlock {
			leftInDstBlock -= copyChunk
			if srcBlock == b.blocks.Back() {
				break
			}
			srcBlock = srcBlock.link.next
			srcOff = 0
			leftInSrcBlock = b.dataSize
			dstOff += copyChunk
			copyChunk = leftInDstBlock
		} else {
			leftInSrcBlock -= copyChunk
			dstBlock = dstBlock.link.next
			dstOff = 0
			leftInDstBlock = b.dataSize
			srcOff += copyChunk
			copyChunk = leftInSrcBlock
		}
	}

	for tmp := b.iters.Back(); tmp != it; tmp = tmp.link.prev {
		tmp.moveBackward(size)
	}

	b.DropBack(size)
	return nil
}

// Resize grows or shrinks the region at it from oldSize to newSize.
func (b *Buffer) Resize(it *Iterator, oldSize, newSize int) error {
	if newSize > oldSize {
		return b.Insert(it, newSize-oldSize)
	}
	return b.Release(it, oldSize-newSize)
}

// Set copies data into the buffer starting at it. It never changes the
// buffer's byte count, never touches iterators, and never allocates.
func (b *Buffer) Set(it *Iterator, data []byte) {
	blk, off := it.blk, it.offset
	leftInBlock := blk.size() - off
	for len(data) > 0 {
		n := leftInBlock
		if n > len(data) {
			n = len(data)
		}
		copy(blk.data[off:off+n], data[:n])
		data = data[n:]
		if len(data) == 0 {
			break
		}
		blk = blk.link.next
		off = 0
		leftInBlock = b.dataSize
	}
}

// Get copies bytes from the buffer starting at it into out.
func (b *Buffer) Get(it *Iterator, out []byte) {
	blk, off := it.blk, it.offset
	leftInBlock := blk.size() - off
	for len(out) > 0 {
		n := leftInBlock
		if n > len(out) {
			n = len(out)
		}
		copy(out[:n], blk.data[off:off+n])
		out = out[n:]
		if len(out) == 0 {
			break
		}
		blk = blk.link.next
		off = 0
		leftInBlock = b.dataSize
	}
}

// Has reports whether at least size bytes follow it.
func (b *Buffer) Has(it *Iterator, size int) bool {
	blk, off := it.blk, it.offset
	last := b.blocks.Back()
	if blk != last {
		have := blk.size() - off
		if size <= have {
			return true
		}
		size -= have
		blk = blk.link.next
		off = 0
	}
	for blk != last {
		if size <= b.dataSize {
			return true
		}
		size -= b.dataSize
		blk = blk.link.next
	}
	return size <= b.endOff-off
}

// GetIOV fills vecs with {base, length} descriptors covering [start, end),
// one per block traversed, and returns the count written. If len(vecs) is
// exhausted before reaching end, the caller may call again with an
// advanced start.
func (b *Buffer) GetIOV(start, end *Iterator, vecs []IOVec) int {
	blk, off := start.blk, start.offset
	n := 0
	for n < len(vecs) {
		if blk == end.blk {
			vecs[n] = IOVec{Base: blk.data[off:end.offset], Len: end.offset - off}
			n++
			break
		}
		vecs[n] = IOVec{Base: blk.data[off:blk.size()], Len: blk.size() - off}
		n++
		blk = blk.link.next
		off = 0
	}
	return n
}

// GetIOVTail is GetIOV(start, End(), vecs) without making the caller manage
// the temporary End() iterator's lifetime.
func (b *Buffer) GetIOVTail(start *Iterator, vecs []IOVec) int {
	end := b.End()
	defer end.Close()
	return b.GetIOV(start, end, vecs)
}

// distanceBetween computes the byte distance between two (block, offset)
// positions in this buffer's block chain, from-position first.
func distanceBetween(dataSize int, fromBlk *block, fromOff int, toBlk *block, toOff int) int {
	return int(toBlk.id-fromBlk.id)*dataSize + toOff - fromOff
}

// Flush drops bytes from the head up to the first live iterator, or, if
// none are registered, up to End(). It never registers a temporary
// iterator of its own to compute that boundary, so it cannot be confused by
// its own bookkeeping.
func (b *Buffer) Flush() {
	fromBlk, fromOff := b.blocks.Front(), b.beginOff
	var distance int
	if b.iters.Empty() {
		toBlk, toOff := b.blocks.Back(), b.endOff
		distance = distanceBetween(b.dataSize, fromBlk, fromOff, toBlk, toOff)
	} else {
		first := b.iters.Front()
		distance = distanceBetween(b.dataSize, fromBlk, fromOff, first.blk, first.offset)
	}
	if distance > 0 {
		b.DropFront(distance)
	}
}

// DebugSelfCheck returns 0 if the buffer is healthy, otherwise a bitmask:
// bit 0 = block ids non-contiguous; bit 1 = id counter inconsistent with
// tail id; bit 2/3 = an iterator sits out of its block's bounds.
//
// The first block is skipped by the id-contiguity check, since there is no
// preceding id to compare it against.
func (b *Buffer) DebugSelfCheck() int {
	res := 0
	expected := b.nextID
	first := true
	for blk := b.blocks.Front(); blk != nil; blk = blk.link.next {
		if first {
			first = false
		} else if blk.id != expected {
			res |= 1
		}
		expected = blk.id + 1
	}
	if expected != b.nextID {
		res |= 2
	}

	for it := b.iters.Front(); it != nil; it = it.link.next {
		if it.offset >= it.blk.size() {
			res |= 4
		}
		if it.offset < 0 {
			res |= 8
		}
	}
	return res
}
