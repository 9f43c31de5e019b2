package view_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

func TestView_Update(t *testing.T) {
	q := query.AtPath(core.Path{"c"})
	v := view.New(q)
	a := doc("c/a", 1, nil)

	// 1. First result from cache
	snap := v.Update(docset.Of(nil, a), core.NewKeySet(a.Key), false)
	require.NotNil(t, snap)
	assert.True(t, snap.FromCache())
	assert.True(t, snap.SyncStateChanged())
	assert.True(t, snap.HasPendingWrites())
	assert.Equal(t, []string{"added c/a v1 [-1->0]"}, summary(snap.Changes()))

	// 2. Nothing changed
	assert.Nil(t, v.Update(docset.Of(nil, a), core.NewKeySet(a.Key), false))

	// 3. Write acknowledged: metadata-only change
	snap = v.Update(docset.Of(nil, a), core.KeySet{}, false)
	require.NotNil(t, snap)
	assert.Equal(t, []string{"metadata c/a v1 [0->0]"}, summary(snap.Changes()))
	assert.False(t, snap.SyncStateChanged())

	// 4. Backend confirms the result
	snap = v.Update(docset.Of(nil, a), core.KeySet{}, true)
	require.NotNil(t, snap)
	assert.Empty(t, snap.Changes())
	assert.False(t, snap.FromCache())
	assert.True(t, snap.SyncStateChanged())
	assert.Equal(t, 1, v.Docs().Len())
}

func TestView_Apply(t *testing.T) {
	q := query.AtPath(core.Path{"c"})
	v := view.New(q)
	require.NotNil(t, v.Update(docset.Of(nil, doc("c/a", 1, nil), doc("c/b", 1, nil)), core.KeySet{}, true))

	changes := view.NewChangeSet()
	changes.Track(view.Change{Type: view.Removed, Doc: doc("c/a", 1, nil)})
	changes.Track(view.Change{Type: view.Added, Doc: doc("c/c", 1, nil)})
	changes.Track(view.Change{Type: view.Metadata, Doc: doc("c/b", 1, nil)})

	snap := v.Apply(changes, core.KeySet{}, true)
	require.NotNil(t, snap)
	assert.Equal(t, []string{
		"removed c/a v1 [0->-1]",
		"metadata c/b v1 [0->0]",
		"added c/c v1 [-1->1]",
	}, summary(snap.Changes()))
	assert.Equal(t, 2, snap.Docs().Len())
}

func TestChangeSet_Track(t *testing.T) {
	v1 := doc("c/a", 1, nil)
	v2 := doc("c/a", 2, nil)
	v3 := doc("c/a", 3, nil)

	cases := []struct {
		name   string
		steps  []view.Change
		expect []string
	}{
		{"added then modified", []view.Change{{Type: view.Added, Doc: v1}, {Type: view.Modified, Doc: v2}}, []string{"added c/a v2"}},
		{"added then removed", []view.Change{{Type: view.Added, Doc: v1}, {Type: view.Removed, Doc: v1}}, []string{}},
		{"modified twice", []view.Change{{Type: view.Modified, Doc: v2, OldDoc: v1}, {Type: view.Modified, Doc: v3, OldDoc: v2}}, []string{"modified c/a v3"}},
		{"modified then removed", []view.Change{{Type: view.Modified, Doc: v2, OldDoc: v1}, {Type: view.Removed, Doc: v2}}, []string{"removed c/a v2"}},
		{"removed then added", []view.Change{{Type: view.Removed, Doc: v1}, {Type: view.Added, Doc: v2}}, []string{"modified c/a v2"}},
		{"metadata then modified", []view.Change{{Type: view.Metadata, Doc: v1}, {Type: view.Modified, Doc: v2}}, []string{"modified c/a v2"}},
		{"modified then metadata", []view.Change{{Type: view.Modified, Doc: v2}, {Type: view.Metadata, Doc: v2}}, []string{"modified c/a v2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := view.NewChangeSet()
			for _, c := range tc.steps {
				set.Track(c)
			}
			got := []string{}
			for _, c := range set.Changes() {
				got = append(got, string(c.Type)+" "+c.Doc.Key.String()+" v"+strconv.FormatInt(c.Doc.Version, 10))
			}
			assert.Equal(t, tc.expect, got)
			assert.Equal(t, len(tc.expect), set.Len())
		})
	}
}

func TestChangeSet_UnsupportedCombination(t *testing.T) {
	set := view.NewChangeSet()
	set.Track(view.Change{Type: view.Added, Doc: doc("c/a", 1, nil)})

	assert.PanicsWithError(t, "invariant violation: cannot fold added after added for c/a", func() {
		set.Track(view.Change{Type: view.Added, Doc: doc("c/a", 2, nil)})
	})
}

func TestQueryListener(t *testing.T) {
	q := query.AtPath(core.Path{"c"})
	a := doc("c/a", 1, nil)

	var raised []*view.Snapshot
	l := view.NewQueryListener(view.ListenOptions{}, func(s *view.Snapshot) { raised = append(raised, s) })
	v := view.New(q)

	// Empty result from cache is held back.
	assert.False(t, l.OnViewSnapshot(v.Update(docset.New(nil), core.KeySet{}, false)))

	// Backend answers with a pending write on a.
	assert.True(t, l.OnViewSnapshot(v.Update(docset.Of(nil, a), core.NewKeySet(a.Key), true)))
	require.Len(t, raised, 1)
	assert.Equal(t, []string{"added c/a v1 [-1->0]"}, summary(raised[0].Changes()))

	// Acknowledging the write is metadata only.
	assert.False(t, l.OnViewSnapshot(v.Update(docset.Of(nil, a), core.KeySet{}, true)))

	// A content change is raised.
	assert.True(t, l.OnViewSnapshot(v.Update(docset.Of(nil, doc("c/a", 2, nil)), core.KeySet{}, true)))
	require.Len(t, raised, 2)
	assert.True(t, raised[1].ExcludesMetadataChanges())
}

func TestQueryListener_IncludeMetadataChanges(t *testing.T) {
	q := query.AtPath(core.Path{"c"})
	a := doc("c/a", 1, nil)

	var raised []*view.Snapshot
	l := view.NewQueryListener(view.ListenOptions{IncludeMetadataChanges: true}, func(s *view.Snapshot) { raised = append(raised, s) })
	v := view.New(q)

	assert.True(t, l.OnViewSnapshot(v.Update(docset.Of(nil, a), core.NewKeySet(a.Key), false)))
	assert.True(t, l.OnViewSnapshot(v.Update(docset.Of(nil, a), core.KeySet{}, false)))
	require.Len(t, raised, 2)
	assert.Equal(t, []string{"metadata c/a v1 [0->0]"}, summary(raised[1].Changes()))

	assert.True(t, l.OnViewSnapshot(v.Update(docset.Of(nil, a), core.KeySet{}, true)), "sync state flip is raised")
	assert.Len(t, raised, 3)
}
