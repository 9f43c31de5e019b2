// Package ordtree implements a persistent AVL tree with order statistics.
//
// Every mutation returns a new Tree that shares unchanged nodes with the
// receiver. Nodes are never modified after construction, so any number of
// versions may be read concurrently.
package ordtree

type node[T any] struct {
	item        T
	left, right *node[T]
	height      int
	size        int
}

// Tree is an immutable ordered collection of unique items.
type Tree[T any] struct {
	root *node[T]
	cmp  func(a, b T) int
}

// New returns an empty tree ordered by cmp.
func New[T any](cmp func(a, b T) int) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

// Len returns the number of items.
func (t *Tree[T]) Len() int {
	return size(t.root)
}

// Insert returns a tree holding item. An item comparing equal is replaced.
func (t *Tree[T]) Insert(item T) *Tree[T] {
	return &Tree[T]{root: t.insert(t.root, item), cmp: t.cmp}
}

// Delete returns a tree without item, or the receiver if item is absent.
func (t *Tree[T]) Delete(item T) *Tree[T] {
	root, ok := t.remove(t.root, item)
	if !ok {
		return t
	}
	return &Tree[T]{root: root, cmp: t.cmp}
}

// Find returns the stored item comparing equal to item.
func (t *Tree[T]) Find(item T) (T, bool) {
	n := t.root
	for n != nil {
		c := t.cmp(item, n.item)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.item, true
		}
	}
	var zero T
	return zero, false
}

// Rank returns the zero-based position of item, or -1 if absent.
func (t *Tree[T]) Rank(item T) int {
	rank := 0
	n := t.root
	for n != nil {
		c := t.cmp(item, n.item)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			rank += size(n.left) + 1
			n = n.right
		default:
			return rank + size(n.left)
		}
	}
	return -1
}

// At returns the item at position i.
func (t *Tree[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= t.Len() {
		return zero, false
	}
	n := t.root
	for n != nil {
		ls := size(n.left)
		switch {
		case i < ls:
			n = n.left
		case i > ls:
			i -= ls + 1
			n = n.right
		default:
			return n.item, true
		}
	}
	return zero, false
}

// Min returns the smallest item.
func (t *Tree[T]) Min() (T, bool) {
	return t.At(0)
}

// Max returns the largest item.
func (t *Tree[T]) Max() (T, bool) {
	return t.At(t.Len() - 1)
}

func (t *Tree[T]) insert(n *node[T], item T) *node[T] {
	if n == nil {
		return newNode(item, nil, nil)
	}
	c := t.cmp(item, n.item)
	switch {
	case c < 0:
		return rebalance(n.item, t.insert(n.left, item), n.right)
	case c > 0:
		return rebalance(n.item, n.left, t.insert(n.right, item))
	}
	return newNode(item, n.left, n.right)
}

func (t *Tree[T]) remove(n *node[T], item T) (*node[T], bool) {
	if n == nil {
		return nil, false
	}
	c := t.cmp(item, n.item)
	switch {
	case c < 0:
		left, ok := t.remove(n.left, item)
		if !ok {
			return n, false
		}
		return rebalance(n.item, left, n.right), true
	case c > 0:
		right, ok := t.remove(n.right, item)
		if !ok {
			return n, false
		}
		return rebalance(n.item, n.left, right), true
	}
	switch {
	case n.left == nil:
		return n.right, true
	case n.right == nil:
		return n.left, true
	}
	successor := n.right
	for successor.left != nil {
		successor = successor.left
	}
	return rebalance(successor.item, n.left, removeMin(n.right)), true
}

func removeMin[T any](n *node[T]) *node[T] {
	if n.left == nil {
		return n.right
	}
	return rebalance(n.item, removeMin(n.left), n.right)
}

func height[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func size[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func newNode[T any](item T, left, right *node[T]) *node[T] {
	return &node[T]{
		item:   item,
		left:   left,
		right:  right,
		height: 1 + max(height(left), height(right)),
		size:   1 + size(left) + size(right),
	}
}

// rebalance builds a node whose subtrees differ in height by at most two
// and restores the AVL property with single or double rotations.
func rebalance[T any](item T, left, right *node[T]) *node[T] {
	hl, hr := height(left), height(right)
	switch {
	case hl > hr+1:
		if height(left.left) >= height(left.right) {
			return newNode(left.item, left.left, newNode(item, left.right, right))
		}
		lr := left.right
		return newNode(lr.item, newNode(left.item, left.left, lr.left), newNode(item, lr.right, right))
	case hr > hl+1:
		if height(right.right) >= height(right.left) {
			return newNode(right.item, newNode(item, left, right.left), right.right)
		}
		rl := right.left
		return newNode(rl.item, newNode(item, left, rl.left), newNode(right.item, rl.right, right.right))
	}
	return newNode(item, left, right)
}
