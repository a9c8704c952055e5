package buf

// Iterator is a registered position (block, offset) inside a Buffer. Unlike
// a plain index, an Iterator survives AddBack growth and mid-buffer
// Insert/Release on other iterators: the Buffer keeps every live Iterator
// in an ordered registry and slides the ones after an edit point whenever
// bytes move underneath them.
//
// Go has no destructors, so where the original C++ iterator deregistered
// itself implicitly when it went out of scope, this Iterator must be
// deregistered explicitly with Close. Forgetting to Close an iterator you
// are done with leaks a registry slot and, worse, can make later
// DropFront/DropBack calls panic in Debug builds because a "live" iterator
// still appears to point into the range being freed.
type Iterator struct {
	link   links[*Iterator]
	buf    *Buffer
	blk    *block
	offset int
}

func (it *Iterator) linkNode() *links[*Iterator] { return &it.link }

// newIterator allocates and registers an iterator at (blk, offset). front
// selects registry insertion at the head (used by Begin, and by positions
// known to be the smallest live position) versus the tail (used by End).
func newIterator(buf *Buffer, blk *block, offset int, front bool) *Iterator {
	it := &Iterator{buf: buf, blk: blk, offset: offset}
	if front {
		buf.iters.PushFront(it)
	} else {
		buf.iters.PushBack(it)
	}
	return it
}

// Clone returns a new Iterator at the same position, registered adjacent to
// the source so registry order is preserved without a re-scan.
func (it *Iterator) Clone() *Iterator {
	clone := &Iterator{buf: it.buf, blk: it.blk, offset: it.offset}
	it.buf.iters.InsertAfter(it, clone)
	return clone
}

// Close deregisters the iterator. Using it afterwards is undefined
// behavior (checked only in Debug builds).
func (it *Iterator) Close() {
	if it.buf == nil {
		return
	}
	it.buf.iters.Remove(it)
	it.buf = nil
}

// Byte returns the byte the iterator points at. Defined only when it is
// not equal to the owning Buffer's End().
func (it *Iterator) Byte() byte {
	return it.blk.data[it.offset]
}

// SetByte mutates the byte the iterator points at. Defined only when it is
// not equal to the owning Buffer's End().
func (it *Iterator) SetByte(b byte) {
	it.blk.data[it.offset] = b
}

// Next advances the iterator by one byte and re-sorts it in the registry.
func (it *Iterator) Next() {
	it.Advance(1)
}

// Advance moves the iterator forward by step bytes, crossing block
// boundaries transparently, then re-sorts it in the registry so registry
// order keeps matching positional order.
func (it *Iterator) Advance(step int) {
	it.moveForward(step)
	it.adjustPositionForward()
}

// Plus returns a new, independently registered view step bytes ahead of it
// without mutating it.
func (it *Iterator) Plus(step int) *Iterator {
	res := it.Clone()
	res.Advance(step)
	return res
}

func (it *Iterator) moveForward(step int) {
	for step >= it.blk.size()-it.offset {
		step -= it.blk.size() - it.offset
		it.blk = it.blk.link.next
		it.offset = 0
	}
	it.offset += step
}

func (it *Iterator) moveBackward(step int) {
	for step > it.offset {
		step -= it.offset
		it.blk = it.blk.link.prev
		it.offset = it.blk.size()
	}
	it.offset -= step
}

// adjustPositionForward restores registry order after moveForward: if the
// iterator moved past the position of one or more of its former successors,
// it is unlinked and reinserted right after the last node that still
// precedes it.
func (it *Iterator) adjustPositionForward() {
	nxt := it.link.next
	if nxt == nil || !nxt.Less(it) {
		return
	}
	cur := nxt
	for cur.link.next != nil && cur.link.next.Less(it) {
		cur = cur.link.next
	}
	it.buf.iters.Remove(it)
	it.buf.iters.InsertAfter(cur, it)
}

// Equal reports whether it and other occupy the same position in the same
// Buffer.
func (it *Iterator) Equal(other *Iterator) bool {
	return it.blk == other.blk && it.offset == other.offset
}

// Less orders iterators lexicographically on (block.id, offset), matching
// registry order.
func (it *Iterator) Less(other *Iterator) bool {
	if it.blk.id != other.blk.id {
		return it.blk.id < other.blk.id
	}
	return it.offset < other.offset
}

// Minus returns the byte distance from other to it, which must be <= it.
func (it *Iterator) Minus(other *Iterator) int {
	return int(it.blk.id-other.blk.id)*it.buf.dataSize + it.offset - other.offset
}
