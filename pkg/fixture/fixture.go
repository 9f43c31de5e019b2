// Package fixture builds documents, sets and snapshots for tests and demos.
// Helpers panic on malformed input; they are not meant for production paths.
package fixture

import (
	"slices"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

// Key parses a document path.
func Key(path string) core.Key {
	return core.MustKey(path)
}

// Doc builds a document at path.
func Doc(path string, version int64, data map[string]any) core.Document {
	return core.NewDocument(Key(path), version, data)
}

// Query returns a query over the collection at path.
func Query(path string) query.Query {
	q, err := query.Parse(path)
	if err != nil {
		panic(err)
	}
	return q
}

// Set builds a key-ordered set from docs.
func Set(docs ...core.Document) *docset.DocumentSet {
	return docset.Of(nil, docs...)
}

// QuerySnapshot builds a snapshot of the collection at path.
//
// oldDocs seeds the prior result and docsToAdd the new one; both map a
// document id to its value, and every document gets version 1. Each added
// document is reported as an Added change, in id order.
func QuerySnapshot(
	path string,
	oldDocs map[string]map[string]any,
	docsToAdd map[string]map[string]any,
	mutatedKeys core.KeySet,
	fromCache bool,
	syncStateChanged bool,
) *view.Snapshot {
	q := Query(path)
	cmp := q.Comparator()

	prior := docset.New(cmp)
	for _, id := range sortedIDs(oldDocs) {
		prior = prior.Add(Doc(path+"/"+id, 1, oldDocs[id]))
	}

	next := docset.New(cmp)
	changes := make([]view.Change, 0, len(docsToAdd))
	for _, id := range sortedIDs(docsToAdd) {
		d := Doc(path+"/"+id, 1, docsToAdd[id])
		next = next.Add(d)
		changes = append(changes, view.Change{Type: view.Added, Doc: d})
	}

	return view.NewSnapshot(view.SnapshotParams{
		Query:            q,
		Docs:             next,
		OldDocs:          prior,
		Changes:          view.AssignIndices(docset.New(cmp), changes),
		MutatedKeys:      mutatedKeys,
		FromCache:        fromCache,
		SyncStateChanged: syncStateChanged,
	})
}

func sortedIDs(docs map[string]map[string]any) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
