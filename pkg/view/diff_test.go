package view_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

func doc(path string, version int64, data map[string]any) core.Document {
	return core.NewDocument(core.MustKey(path), version, data)
}

func rendered(docs []core.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.String()
	}
	return out
}

func summary(changes []view.Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = fmt.Sprintf("%s %s v%d [%d->%d]", c.Type, c.Doc.Key, c.Doc.Version, c.OldIndex, c.NewIndex)
	}
	return out
}

func TestDiff_RemoveModifyAdd(t *testing.T) {
	oldDocs := docset.Of(nil, doc("c/a", 1, nil), doc("c/b", 1, nil))
	newDocs := docset.Of(nil, doc("c/b", 2, nil), doc("c/c", 1, nil))

	changes := view.Diff(oldDocs, newDocs, core.KeySet{})

	assert.Equal(t, []string{
		"removed c/a v1 [0->-1]",
		"modified c/b v2 [0->0]",
		"added c/c v1 [-1->1]",
	}, summary(changes))
	assert.Equal(t, int64(1), changes[1].OldDoc.Version)
	assert.Equal(t, []string{"c/b(v2){}", "c/c(v1){}"}, rendered(newDocs.Documents()))
}

func TestDiff_FromEmpty(t *testing.T) {
	x := doc("c/x", 1, map[string]any{"n": 1})
	changes := view.Diff(docset.New(nil), docset.Of(nil, x), core.KeySet{})

	require.Len(t, changes, 1)
	assert.Equal(t, view.Added, changes[0].Type)
	assert.True(t, changes[0].Doc.Equal(x))
}

func TestDiff_MetadataOnly(t *testing.T) {
	x := doc("c/x", 1, nil)
	docs := docset.Of(nil, x)

	assert.Empty(t, view.Diff(docs, docs, core.KeySet{}))

	changes := view.Diff(docs, docs, core.NewKeySet(x.Key))
	require.Len(t, changes, 1)
	assert.Equal(t, view.Metadata, changes[0].Type)
	assert.Equal(t, 0, changes[0].OldIndex)
	assert.Equal(t, 0, changes[0].NewIndex)
}

func TestDiff_RemovalsDescending(t *testing.T) {
	oldDocs := docset.Of(nil, doc("c/a", 1, nil), doc("c/b", 1, nil), doc("c/c", 1, nil))
	newDocs := docset.Of(nil, doc("c/b", 1, nil))

	assert.Equal(t, []string{
		"removed c/c v1 [2->-1]",
		"removed c/a v1 [0->-1]",
	}, summary(view.Diff(oldDocs, newDocs, core.KeySet{})))
}

func TestDiff_MovedDocuments(t *testing.T) {
	q := query.AtPath(core.Path{"c"}).OrderBy("rank", query.Ascending)
	oldDocs := docset.Of(q.Comparator(),
		doc("c/a", 1, map[string]any{"rank": 1}),
		doc("c/b", 1, map[string]any{"rank": 2}),
		doc("c/c", 1, map[string]any{"rank": 3}),
	)
	newDocs := oldDocs.
		Add(doc("c/a", 2, map[string]any{"rank": 5})).
		Add(doc("c/b", 2, map[string]any{"rank": 4}))

	changes := view.Diff(oldDocs, newDocs, core.KeySet{})

	assert.Equal(t, []string{
		"modified c/b v2 [1->2]",
		"modified c/a v2 [0->2]",
	}, summary(changes))
	assert.Equal(t, rendered(newDocs.Documents()), rendered(view.Replay(oldDocs.Documents(), changes)))
}

// randomPair builds two result sets over the same keys with random
// membership, sort values and edits.
func randomPair(rng *rand.Rand, cmp core.Comparator) (*docset.DocumentSet, *docset.DocumentSet) {
	oldDocs, newDocs := docset.New(cmp), docset.New(cmp)
	for i := 0; i < 30; i++ {
		path := fmt.Sprintf("c/%02d", i)
		rank := rng.Intn(6)
		inOld, inNew := rng.Intn(3) > 0, rng.Intn(3) > 0
		if inOld {
			oldDocs = oldDocs.Add(doc(path, 1, map[string]any{"rank": rank}))
		}
		if inNew {
			version := int64(1)
			if inOld && rng.Intn(2) == 0 {
				version, rank = 2, rng.Intn(6)
			}
			newDocs = newDocs.Add(doc(path, version, map[string]any{"rank": rank}))
		}
	}
	return oldDocs, newDocs
}

// randomKeys picks each candidate key with probability 1/3. Candidates
// include keys outside both sets.
func randomKeys(rng *rand.Rand) core.KeySet {
	keys := core.KeySet{}
	for i := 0; i < 35; i++ {
		if rng.Intn(3) == 0 {
			keys = keys.Add(core.MustKey(fmt.Sprintf("c/%02d", i)))
		}
	}
	return keys
}

func TestDiff_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, dir := range []query.Direction{query.Ascending, query.Descending} {
		q := query.AtPath(core.Path{"c"}).OrderBy("rank", dir)
		cmp := q.Comparator()
		for round := 0; round < 100; round++ {
			oldDocs, newDocs := randomPair(rng, cmp)
			metadataChanged := core.KeySet{}
			if round%2 == 1 {
				metadataChanged = randomKeys(rng)
			}

			first := view.Diff(oldDocs, newDocs, metadataChanged)
			second := view.Diff(oldDocs, newDocs, metadataChanged)
			require.Equal(t, summary(first), summary(second), "diff must be deterministic")

			replayed := view.Replay(oldDocs.Documents(), first)
			require.Equal(t, rendered(newDocs.Documents()), rendered(replayed), "replay must reach the new order")

			visible := view.NewSnapshot(view.SnapshotParams{
				Query:                   q,
				Docs:                    newDocs,
				OldDocs:                 oldDocs,
				Changes:                 first,
				ExcludesMetadataChanges: true,
			}).Changes()
			require.Equal(t, rendered(newDocs.Documents()), rendered(view.Replay(oldDocs.Documents(), visible)),
				"replay without metadata changes must reach the new order")

			assert.Empty(t, view.Diff(oldDocs, oldDocs, core.KeySet{}))

			metadataSeen := 0
			for _, c := range first {
				switch c.Type {
				case view.Removed:
					assert.True(t, oldDocs.Has(c.Doc.Key))
					assert.False(t, newDocs.Has(c.Doc.Key))
				case view.Metadata:
					metadataSeen++
					assert.True(t, metadataChanged.Has(c.Doc.Key))
					assert.True(t, c.Doc.Equal(c.OldDoc))
					assert.Equal(t, c.OldIndex, c.NewIndex)
				default:
					assert.True(t, newDocs.Has(c.Doc.Key))
				}
			}

			wantMetadata := 0
			for _, k := range metadataChanged.Keys() {
				prior, inOld := oldDocs.Get(k)
				next, inNew := newDocs.Get(k)
				if inOld && inNew && prior.Equal(next) {
					wantMetadata++
				}
			}
			assert.Equal(t, wantMetadata, metadataSeen)
		}
	}
}

func TestAssignIndices_ExplicitList(t *testing.T) {
	oldDocs := docset.New(nil)
	changes := view.AssignIndices(oldDocs, []view.Change{
		{Type: view.Added, Doc: doc("c/b", 1, nil)},
		{Type: view.Added, Doc: doc("c/a", 1, nil)},
	})
	assert.Equal(t, []string{
		"added c/b v1 [-1->0]",
		"added c/a v1 [-1->0]",
	}, summary(changes))
	assert.Equal(t, []string{"c/a(v1){}", "c/b(v1){}"}, rendered(view.Replay(nil, changes)))
}
