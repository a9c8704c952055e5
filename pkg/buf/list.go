package buf

// links holds the intrusive doubly-linked pointers for a node of type T.
// T is always a pointer type (*block or *Iterator); the zero value of T acts
// as the list's nil terminator.
type links[T any] struct {
	prev, next T
}

// linkable is implemented by node types that embed a links[T] and expose it
// so list[T] can splice/remove nodes without any boxing.
type linkable[T any] interface {
	linkNode() *links[T]
}

// listNode is the constraint satisfied by the node pointer types used as
// list[T]'s type parameter: comparable (so the list can recognize its own
// nil terminator) and linkable (so it can reach the node's link fields).
type listNode[T any] interface {
	comparable
	linkable[T]
}

// list is a generic intrusive doubly-linked list. It never allocates a
// wrapper node: the prev/next pointers live inside the element itself,
// which is what lets blockList and the iterator registry both get O(1)
// push/remove/splice without indirection through container/list's boxed
// Element type.
type list[T listNode[T]] struct {
	head, tail T
	n          int
}

func (l *list[T]) Len() int    { return l.n }
func (l *list[T]) Empty() bool { return l.n == 0 }
func (l *list[T]) Front() T    { return l.head }
func (l *list[T]) Back() T     { return l.tail }

// PushBack appends v, which must not currently belong to any list.
func (l *list[T]) PushBack(v T) {
	ln := v.linkNode()
	var zero T
	ln.next = zero
	if l.n == 0 {
		ln.prev = zero
		l.head = v
	} else {
		l.tail.linkNode().next = v
		ln.prev = l.tail
	}
	l.tail = v
	l.n++
}

// PushFront prepends v, which must not currently belong to any list.
func (l *list[T]) PushFront(v T) {
	ln := v.linkNode()
	var zero T
	ln.prev = zero
	if l.n == 0 {
		ln.next = zero
		l.tail = v
	} else {
		l.head.linkNode().prev = v
		ln.next = l.head
	}
	l.head = v
	l.n++
}

// InsertAfter inserts v immediately after after. after must be a current
// member of l; v must not currently belong to any list.
func (l *list[T]) InsertAfter(after, v T) {
	var zero T
	an := after.linkNode()
	vn := v.linkNode()
	vn.prev = after
	vn.next = an.next
	if an.next != zero {
		an.next.linkNode().prev = v
	} else {
		l.tail = v
	}
	an.next = v
	l.n++
}

// Remove detaches v, which must be a current member of l.
func (l *list[T]) Remove(v T) {
	ln := v.linkNode()
	var zero T
	if ln.prev != zero {
		ln.prev.linkNode().next = ln.next
	} else {
		l.head = ln.next
	}
	if ln.next != zero {
		ln.next.linkNode().prev = ln.prev
	} else {
		l.tail = ln.prev
	}
	ln.prev, ln.next = zero, zero
	l.n--
}

// SpliceBack moves every node of other to the tail of l, in O(1). other is
// left empty.
func (l *list[T]) SpliceBack(other *list[T]) {
	if other.n == 0 {
		return
	}
	var zero T
	if l.n == 0 {
		l.head = other.head
	} else {
		l.tail.linkNode().next = other.head
		other.head.linkNode().prev = l.tail
	}
	l.tail = other.tail
	l.n += other.n
	other.head, other.tail, other.n = zero, zero, 0
}
