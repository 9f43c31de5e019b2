package ordtree

// Iterator walks a tree in ascending order. It holds the version of the
// tree it was created from; later mutations do not affect it.
type Iterator[T any] struct {
	stack []*node[T]
}

// Iterator returns an iterator positioned before the smallest item.
func (t *Tree[T]) Iterator() *Iterator[T] {
	it := &Iterator[T]{}
	it.pushLeft(t.root)
	return it
}

func (it *Iterator[T]) pushLeft(n *node[T]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

// Done reports whether all items have been returned.
func (it *Iterator[T]) Done() bool {
	return len(it.stack) == 0
}

// Peek returns the next item without advancing.
func (it *Iterator[T]) Peek() (T, bool) {
	if it.Done() {
		var zero T
		return zero, false
	}
	return it.stack[len(it.stack)-1].item, true
}

// Next returns the next item and advances.
func (it *Iterator[T]) Next() (T, bool) {
	if it.Done() {
		var zero T
		return zero, false
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeft(n.right)
	return n.item, true
}
