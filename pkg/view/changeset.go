package view

import (
	"fmt"

	"github.com/benbjohnson/immutable"

	"github.com/aretw0/docview/pkg/core"
)

// ChangeSet accumulates changes reported in separate batches and folds
// successive changes to the same key into one. The zero value is ready to use.
type ChangeSet struct {
	changes *immutable.SortedMap[core.Key, Change]
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{}
}

// Track records change, merging it with an earlier change for the same key:
//
//	added    + modified -> added (new doc)
//	added    + removed  -> nothing
//	modified + modified -> modified (new doc)
//	modified + removed  -> removed (last tracked doc)
//	removed  + added    -> modified (new doc)
//	metadata + x        -> x, unless x is added
//	x        + metadata -> x (new doc), unless x is removed
//
// Any other combination means the producer lost track of a document's state
// and panics with core.ErrInvariantViolation.
func (s *ChangeSet) Track(change Change) {
	if s.changes == nil {
		s.changes = immutable.NewSortedMap[core.Key, Change](core.KeyComparer())
	}
	key := change.Doc.Key
	prev, ok := s.changes.Get(key)
	if !ok {
		s.changes = s.changes.Set(key, change)
		return
	}

	switch {
	case change.Type != Added && prev.Type == Metadata:
		s.changes = s.changes.Set(key, change)
	case change.Type == Metadata && prev.Type != Removed:
		s.changes = s.changes.Set(key, Change{Type: prev.Type, Doc: change.Doc, OldDoc: prev.OldDoc})
	case change.Type == Modified && prev.Type == Modified:
		s.changes = s.changes.Set(key, Change{Type: Modified, Doc: change.Doc, OldDoc: prev.OldDoc})
	case change.Type == Modified && prev.Type == Added:
		s.changes = s.changes.Set(key, Change{Type: Added, Doc: change.Doc})
	case change.Type == Removed && prev.Type == Added:
		s.changes = s.changes.Delete(key)
	case change.Type == Removed && prev.Type == Modified:
		s.changes = s.changes.Set(key, Change{Type: Removed, Doc: prev.Doc})
	case change.Type == Added && prev.Type == Removed:
		s.changes = s.changes.Set(key, Change{Type: Modified, Doc: change.Doc, OldDoc: prev.Doc})
	default:
		panic(fmt.Errorf("%w: cannot fold %s after %s for %s",
			core.ErrInvariantViolation, change.Type, prev.Type, key))
	}
}

// Len returns the number of keys with a pending change.
func (s *ChangeSet) Len() int {
	if s.changes == nil {
		return 0
	}
	return s.changes.Len()
}

// Changes returns the folded changes in key order. Positions are unset (-1).
func (s *ChangeSet) Changes() []Change {
	if s.changes == nil {
		return nil
	}
	out := make([]Change, 0, s.changes.Len())
	itr := s.changes.Iterator()
	for !itr.Done() {
		_, c, _ := itr.Next()
		c.OldIndex, c.NewIndex = -1, -1
		out = append(out, c)
	}
	return out
}
