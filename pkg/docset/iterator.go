package docset

import (
	"github.com/aretw0/docview/internal/ordtree"
	"github.com/aretw0/docview/pkg/core"
)

// Iterator walks a DocumentSet in comparator order with one-item lookahead.
type Iterator struct {
	it *ordtree.Iterator[core.Document]
}

// Done reports whether every document has been returned.
func (i *Iterator) Done() bool {
	return i.it.Done()
}

// Peek returns the next document without advancing.
func (i *Iterator) Peek() (core.Document, bool) {
	return i.it.Peek()
}

// Next returns the next document and advances.
func (i *Iterator) Next() (core.Document, bool) {
	return i.it.Next()
}
