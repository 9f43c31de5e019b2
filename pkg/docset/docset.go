// Package docset implements the Document Set: an immutable, key-unique
// collection of documents kept in the order of a query comparator.
package docset

import (
	"fmt"
	"iter"
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/aretw0/docview/internal/ordtree"
	"github.com/aretw0/docview/pkg/core"
)

// DocumentSet is a persistent ordered set of documents.
//
// It keeps two indices: a key-ordered map for lookups and a
// comparator-ordered tree for iteration and positions. Both are replaced
// together by every mutation, which returns a new set; the receiver and any
// iterators over it stay valid and unchanged.
type DocumentSet struct {
	cmp    core.Comparator
	byKey  *immutable.SortedMap[core.Key, core.Document]
	sorted *ordtree.Tree[core.Document]
}

// New returns an empty set ordered by cmp. A nil cmp orders by key.
// Comparator ties are broken by key so iteration order is total.
func New(cmp core.Comparator) *DocumentSet {
	if cmp == nil {
		cmp = core.KeyOrder
	}
	return &DocumentSet{
		cmp:    cmp,
		byKey:  immutable.NewSortedMap[core.Key, core.Document](core.KeyComparer()),
		sorted: ordtree.New(tieBreak(cmp)),
	}
}

// Of builds a set from docs that must have distinct keys.
// A duplicate key is a programming error and panics with core.ErrInvariantViolation.
func Of(cmp core.Comparator, docs ...core.Document) *DocumentSet {
	s := New(cmp)
	for _, d := range docs {
		if s.Has(d.Key) {
			panic(fmt.Errorf("%w: duplicate document key %s", core.ErrInvariantViolation, d.Key))
		}
		s = s.Add(d)
	}
	return s
}

func tieBreak(cmp core.Comparator) func(a, b core.Document) int {
	return func(a, b core.Document) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		return a.Key.Compare(b.Key)
	}
}

// Comparator returns the order of the set.
func (s *DocumentSet) Comparator() core.Comparator {
	return s.cmp
}

// Compare orders two documents the way this set does, including the key tie-break.
func (s *DocumentSet) Compare(a, b core.Document) int {
	return tieBreak(s.cmp)(a, b)
}

// Add returns a set holding doc. Any document with the same key is replaced;
// doc takes the position the comparator gives it.
func (s *DocumentSet) Add(doc core.Document) *DocumentSet {
	next := s.Remove(doc.Key)
	return next.with(next.byKey.Set(doc.Key, doc), next.sorted.Insert(doc))
}

// Remove returns a set without the document for key, or the receiver when
// key is absent.
func (s *DocumentSet) Remove(key core.Key) *DocumentSet {
	old, ok := s.byKey.Get(key)
	if !ok {
		return s
	}
	return s.with(s.byKey.Delete(key), s.sorted.Delete(old))
}

func (s *DocumentSet) with(byKey *immutable.SortedMap[core.Key, core.Document], sorted *ordtree.Tree[core.Document]) *DocumentSet {
	if byKey.Len() != sorted.Len() {
		panic(fmt.Errorf("%w: key index holds %d documents, ordered index holds %d",
			core.ErrInvariantViolation, byKey.Len(), sorted.Len()))
	}
	return &DocumentSet{cmp: s.cmp, byKey: byKey, sorted: sorted}
}

// Get returns the document for key.
func (s *DocumentSet) Get(key core.Key) (core.Document, bool) {
	return s.byKey.Get(key)
}

// Has reports whether a document with key is present.
func (s *DocumentSet) Has(key core.Key) bool {
	_, ok := s.byKey.Get(key)
	return ok
}

// Len returns the number of documents.
func (s *DocumentSet) Len() int {
	return s.byKey.Len()
}

// Empty reports whether the set holds no documents.
func (s *DocumentSet) Empty() bool {
	return s.Len() == 0
}

// First returns the smallest document under the comparator.
func (s *DocumentSet) First() (core.Document, bool) {
	return s.sorted.Min()
}

// Last returns the largest document under the comparator.
func (s *DocumentSet) Last() (core.Document, bool) {
	return s.sorted.Max()
}

// IndexOf returns the position of the document for key, or -1.
func (s *DocumentSet) IndexOf(key core.Key) int {
	doc, ok := s.byKey.Get(key)
	if !ok {
		return -1
	}
	return s.sorted.Rank(doc)
}

// At returns the document at position i in comparator order.
func (s *DocumentSet) At(i int) (core.Document, bool) {
	return s.sorted.At(i)
}

// Iterator returns a fresh iterator over the documents in comparator order.
func (s *DocumentSet) Iterator() *Iterator {
	return &Iterator{it: s.sorted.Iterator()}
}

// All yields documents in comparator order. Each call starts from the first
// document of this version of the set.
func (s *DocumentSet) All() iter.Seq[core.Document] {
	return func(yield func(core.Document) bool) {
		it := s.sorted.Iterator()
		for !it.Done() {
			d, _ := it.Next()
			if !yield(d) {
				return
			}
		}
	}
}

// Documents returns the documents in comparator order.
func (s *DocumentSet) Documents() []core.Document {
	out := make([]core.Document, 0, s.Len())
	for d := range s.All() {
		out = append(out, d)
	}
	return out
}

// Keys returns the keys of the set.
func (s *DocumentSet) Keys() core.KeySet {
	keys := core.KeySet{}
	itr := s.byKey.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		keys = keys.Add(k)
	}
	return keys
}

// Equal reports whether both sets map the same keys to equal documents,
// independent of comparator or construction history.
func (s *DocumentSet) Equal(other *DocumentSet) bool {
	if s == other {
		return true
	}
	if other == nil || s.Len() != other.Len() {
		return false
	}
	a, b := s.byKey.Iterator(), other.byKey.Iterator()
	for !a.Done() {
		_, da, _ := a.Next()
		_, db, _ := b.Next()
		if !da.Equal(db) {
			return false
		}
	}
	return true
}

// String renders the documents in order, e.g. "DocumentSet(c/a(v1){}, c/b(v1){})".
func (s *DocumentSet) String() string {
	parts := make([]string, 0, s.Len())
	for d := range s.All() {
		parts = append(parts, d.String())
	}
	return "DocumentSet(" + strings.Join(parts, ", ") + ")"
}
