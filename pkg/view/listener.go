package view

// ListenOptions configure a QueryListener.
type ListenOptions struct {
	// IncludeMetadataChanges raises snapshots whose only changes are
	// pending-write or sync state flips, and keeps Metadata changes in the
	// change list.
	IncludeMetadataChanges bool
}

// QueryListener decides which view snapshots reach an observer.
//
// The first snapshot is held back while it is served from cache and empty,
// so observers do not flash an empty result before the backend answers.
// Afterwards a snapshot is raised when it carries changes, or when only its
// metadata changed and the listener asked for metadata changes.
type QueryListener struct {
	opts     ListenOptions
	observer func(*Snapshot)

	raisedInitial bool
	last          *Snapshot
}

// NewQueryListener returns a listener delivering to observer.
func NewQueryListener(opts ListenOptions, observer func(*Snapshot)) *QueryListener {
	return &QueryListener{opts: opts, observer: observer}
}

// OnViewSnapshot offers a snapshot to the listener and reports whether it
// was raised to the observer. A nil snapshot (no change) is ignored.
func (l *QueryListener) OnViewSnapshot(snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	if !l.opts.IncludeMetadataChanges {
		snap = NewSnapshot(SnapshotParams{
			Query:                   snap.query,
			Docs:                    snap.docs,
			OldDocs:                 snap.oldDocs,
			Changes:                 snap.changes,
			MutatedKeys:             snap.mutatedKeys,
			FromCache:               snap.fromCache,
			SyncStateChanged:        snap.syncStateChanged,
			ExcludesMetadataChanges: true,
		})
	}

	raised := false
	switch {
	case !l.raisedInitial:
		if l.shouldRaiseInitial(snap) {
			snap = FromInitialDocuments(snap.query, snap.docs, snap.mutatedKeys, snap.fromCache, snap.excludesMetadataChanges)
			l.raisedInitial = true
			l.observer(snap)
			raised = true
		}
	case l.shouldRaise(snap):
		l.observer(snap)
		raised = true
	}
	l.last = snap
	return raised
}

func (l *QueryListener) shouldRaiseInitial(snap *Snapshot) bool {
	return !snap.fromCache || !snap.docs.Empty()
}

func (l *QueryListener) shouldRaise(snap *Snapshot) bool {
	if len(snap.changes) > 0 {
		return true
	}
	pendingChanged := l.last != nil && l.last.HasPendingWrites() != snap.HasPendingWrites()
	if snap.syncStateChanged || pendingChanged {
		return l.opts.IncludeMetadataChanges
	}
	return false
}
