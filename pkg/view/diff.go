package view

import (
	"slices"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
)

// Diff computes the ordered change list that turns oldDocs into newDocs.
//
// Both sets are walked in lockstep in comparator order (ties broken by key).
// A key only in oldDocs is Removed, a key only in newDocs is Added, a key in
// both with a different document is Modified, and an unchanged document whose
// key is in metadataChanged is reported as Metadata.
//
// Changes are emitted as all removals in descending prior position followed
// by every other change in ascending new position. OldIndex and NewIndex are
// set by AssignIndices, so replaying the list in order against a plain list
// materialized from oldDocs yields the order of newDocs.
//
// Both sets must share a comparator. The result depends only on the inputs.
func Diff(oldDocs, newDocs *docset.DocumentSet, metadataChanged core.KeySet) []Change {
	var removed, updated []Change

	oldIt, newIt := oldDocs.Iterator(), newDocs.Iterator()
	for !oldIt.Done() || !newIt.Done() {
		od, oldOK := oldIt.Peek()
		nd, newOK := newIt.Peek()

		switch {
		case oldOK && newOK && od.Key.Equal(nd.Key):
			oldIt.Next()
			newIt.Next()
			if c, ok := classify(od, nd, metadataChanged); ok {
				updated = append(updated, c)
			}

		case !newOK || (oldOK && newDocs.Compare(od, nd) < 0):
			oldIt.Next()
			// A key still present in newDocs has moved; it is reported
			// when the walk reaches its new position.
			if !newDocs.Has(od.Key) {
				removed = append(removed, Change{Type: Removed, Doc: od})
			}

		default:
			newIt.Next()
			prior, existed := oldDocs.Get(nd.Key)
			if !existed {
				updated = append(updated, Change{Type: Added, Doc: nd})
			} else if c, ok := classify(prior, nd, metadataChanged); ok {
				updated = append(updated, c)
			}
		}
	}

	slices.Reverse(removed)
	return AssignIndices(oldDocs, append(removed, updated...))
}

func classify(prior, next core.Document, metadataChanged core.KeySet) (Change, bool) {
	switch {
	case !prior.Equal(next):
		return Change{Type: Modified, Doc: next, OldDoc: prior}, true
	case metadataChanged.Has(next.Key):
		return Change{Type: Metadata, Doc: next, OldDoc: prior}, true
	}
	return Change{}, false
}

// AssignIndices returns a copy of changes with OldIndex and NewIndex set by
// replaying them, in order, against an index tracker seeded with oldDocs:
// every change but Added is first removed at OldIndex, every change but
// Removed is then inserted at NewIndex.
func AssignIndices(oldDocs *docset.DocumentSet, changes []Change) []Change {
	out := make([]Change, len(changes))
	tracker := oldDocs
	for i, c := range changes {
		c.OldIndex, c.NewIndex = -1, -1
		if c.Type != Added {
			c.OldIndex = tracker.IndexOf(c.Doc.Key)
			tracker = tracker.Remove(c.Doc.Key)
		}
		if c.Type != Removed {
			tracker = tracker.Add(c.Doc)
			c.NewIndex = tracker.IndexOf(c.Doc.Key)
		}
		out[i] = c
	}
	return out
}

// Replay applies changes to a plain list the way a UI list would:
// remove at OldIndex, then insert at NewIndex. The input is not modified.
func Replay(docs []core.Document, changes []Change) []core.Document {
	out := slices.Clone(docs)
	for _, c := range changes {
		if c.OldIndex >= 0 {
			out = slices.Delete(out, c.OldIndex, c.OldIndex+1)
		}
		if c.NewIndex >= 0 {
			out = slices.Insert(out, c.NewIndex, c.Doc)
		}
	}
	return out
}
