// Package view computes and carries the results of a query over time:
// the diff between two Document Sets, the snapshots built from it, and the
// listener policy deciding which snapshots reach an observer.
package view

import (
	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
)

// View holds the latest result of one query and turns each new result into
// a Snapshot. A View is not safe for concurrent use.
type View struct {
	query       query.Query
	docs        *docset.DocumentSet
	mutatedKeys core.KeySet
	fromCache   bool
	started     bool
}

// New returns a view of q with no documents.
func New(q query.Query) *View {
	return &View{
		query: q,
		docs:  docset.New(q.Comparator()),
	}
}

// Query returns the query of the view.
func (v *View) Query() query.Query {
	return v.query
}

// Docs returns the current result.
func (v *View) Docs() *docset.DocumentSet {
	return v.docs
}

// Update replaces the whole result with docs, which must be ordered by the
// view's query. mutatedKeys lists documents with pending local writes;
// current reports that the result is confirmed by the backend.
//
// Documents whose pending-write state flipped without a content change are
// reported as Metadata changes. Update returns nil when neither the
// documents, their metadata, nor the sync state changed. The first call
// always returns a snapshot.
func (v *View) Update(docs *docset.DocumentSet, mutatedKeys core.KeySet, current bool) *Snapshot {
	return v.commit(docs, mutatedKeys, current, core.KeySet{})
}

// Apply folds an explicit change list into the current result. Metadata
// changes in the set are reported even if the pending-write state is
// unchanged.
func (v *View) Apply(changes *ChangeSet, mutatedKeys core.KeySet, current bool) *Snapshot {
	next := v.docs
	explicit := core.KeySet{}
	for _, c := range changes.Changes() {
		switch c.Type {
		case Removed:
			next = next.Remove(c.Doc.Key)
		case Metadata:
			explicit = explicit.Add(c.Doc.Key)
			next = next.Add(c.Doc)
		default:
			next = next.Add(c.Doc)
		}
	}
	return v.commit(next, mutatedKeys, current, explicit)
}

func (v *View) commit(docs *docset.DocumentSet, mutatedKeys core.KeySet, current bool, metadataChanged core.KeySet) *Snapshot {
	for _, k := range mutatedKeys.Union(v.mutatedKeys).Keys() {
		if mutatedKeys.Has(k) != v.mutatedKeys.Has(k) {
			metadataChanged = metadataChanged.Add(k)
		}
	}

	changes := Diff(v.docs, docs, metadataChanged)
	fromCache := !current
	syncStateChanged := !v.started || fromCache != v.fromCache

	oldDocs := v.docs
	v.docs = docs
	v.mutatedKeys = mutatedKeys
	v.fromCache = fromCache
	v.started = true

	if len(changes) == 0 && !syncStateChanged {
		return nil
	}
	return NewSnapshot(SnapshotParams{
		Query:            v.query,
		Docs:             docs,
		OldDocs:          oldDocs,
		Changes:          changes,
		MutatedKeys:      mutatedKeys,
		FromCache:        fromCache,
		SyncStateChanged: syncStateChanged,
	})
}
