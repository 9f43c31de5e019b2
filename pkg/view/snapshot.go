package view

import (
	"fmt"
	"slices"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
)

// SnapshotParams carries everything a Snapshot is assembled from.
type SnapshotParams struct {
	Query            query.Query
	Docs             *docset.DocumentSet
	OldDocs          *docset.DocumentSet
	Changes          []Change
	MutatedKeys      core.KeySet
	FromCache        bool
	SyncStateChanged bool
	// ExcludesMetadataChanges drops Metadata changes from the visible
	// change list. Docs still holds every document.
	ExcludesMetadataChanges bool
}

// Snapshot is the immutable result of one query evaluation: the new
// documents, the diff from the previous result, and session metadata.
//
// Every key in the change list is in Docs, except Removed keys which are
// only in OldDocs. That is the caller's responsibility; NewSnapshot trusts
// its inputs.
type Snapshot struct {
	query                   query.Query
	docs                    *docset.DocumentSet
	oldDocs                 *docset.DocumentSet
	changes                 []Change
	mutatedKeys             core.KeySet
	fromCache               bool
	syncStateChanged        bool
	excludesMetadataChanges bool
}

// NewSnapshot assembles a snapshot. It copies the change list and never
// modifies its inputs.
func NewSnapshot(p SnapshotParams) *Snapshot {
	docs, oldDocs := p.Docs, p.OldDocs
	if docs == nil {
		docs = docset.New(p.Query.Comparator())
	}
	if oldDocs == nil {
		oldDocs = docset.New(docs.Comparator())
	}

	changes := make([]Change, 0, len(p.Changes))
	for _, c := range p.Changes {
		if p.ExcludesMetadataChanges && c.Type == Metadata {
			continue
		}
		changes = append(changes, c)
	}

	return &Snapshot{
		query:                   p.Query,
		docs:                    docs,
		oldDocs:                 oldDocs,
		changes:                 changes,
		mutatedKeys:             p.MutatedKeys,
		fromCache:               p.FromCache,
		syncStateChanged:        p.SyncStateChanged,
		excludesMetadataChanges: p.ExcludesMetadataChanges,
	}
}

// FromInitialDocuments builds the first snapshot of a query, reporting
// every document as Added.
func FromInitialDocuments(q query.Query, docs *docset.DocumentSet, mutatedKeys core.KeySet, fromCache, excludesMetadataChanges bool) *Snapshot {
	empty := docset.New(docs.Comparator())
	changes := make([]Change, 0, docs.Len())
	for d := range docs.All() {
		changes = append(changes, Change{Type: Added, Doc: d})
	}
	return NewSnapshot(SnapshotParams{
		Query:                   q,
		Docs:                    docs,
		OldDocs:                 empty,
		Changes:                 AssignIndices(empty, changes),
		MutatedKeys:             mutatedKeys,
		FromCache:               fromCache,
		SyncStateChanged:        true,
		ExcludesMetadataChanges: excludesMetadataChanges,
	})
}

// Query returns the query the snapshot answers.
func (s *Snapshot) Query() query.Query { return s.query }

// Docs returns the documents of this result.
func (s *Snapshot) Docs() *docset.DocumentSet { return s.docs }

// OldDocs returns the documents of the previous result.
func (s *Snapshot) OldDocs() *docset.DocumentSet { return s.oldDocs }

// Changes returns a copy of the visible change list.
func (s *Snapshot) Changes() []Change { return slices.Clone(s.changes) }

// MutatedKeys returns the keys with unacknowledged local writes.
func (s *Snapshot) MutatedKeys() core.KeySet { return s.mutatedKeys }

// FromCache reports whether the result lacks confirmation from the server.
func (s *Snapshot) FromCache() bool { return s.fromCache }

// SyncStateChanged reports whether FromCache flipped since the previous snapshot.
func (s *Snapshot) SyncStateChanged() bool { return s.syncStateChanged }

// ExcludesMetadataChanges reports whether Metadata changes were filtered out.
func (s *Snapshot) ExcludesMetadataChanges() bool { return s.excludesMetadataChanges }

// HasPendingWrites reports whether any document has unacknowledged local writes.
func (s *Snapshot) HasPendingWrites() bool { return !s.mutatedKeys.Empty() }

// Equal compares every field of two snapshots.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == other {
		return true
	}
	if other == nil ||
		s.fromCache != other.fromCache ||
		s.syncStateChanged != other.syncStateChanged ||
		s.excludesMetadataChanges != other.excludesMetadataChanges ||
		!s.mutatedKeys.Equal(other.mutatedKeys) ||
		!s.query.Equal(other.query) ||
		!s.docs.Equal(other.docs) ||
		!s.oldDocs.Equal(other.oldDocs) ||
		len(s.changes) != len(other.changes) {
		return false
	}
	for i := range s.changes {
		if !s.changes[i].Equal(other.changes[i]) {
			return false
		}
	}
	return true
}

// String summarizes the snapshot for logs and event streams.
func (s *Snapshot) String() string {
	return fmt.Sprintf("ViewSnapshot(%s, docs=%d, changes=%d, mutated=%d, fromCache=%t, syncStateChanged=%t)",
		s.query.CanonicalID(), s.docs.Len(), len(s.changes), s.mutatedKeys.Len(), s.fromCache, s.syncStateChanged)
}
