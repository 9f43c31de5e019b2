// Package lifecycle exposes snapshot streams as lifecycle event sources.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/docview/pkg/view"
)

// SnapshotEvent is one snapshot delivered through a lifecycle.Source.
type SnapshotEvent struct {
	Seq      uint64 // 1-based position in the stream
	Query    string // canonical ID of the snapshot's query
	Snapshot *view.Snapshot
}

// String implements lifecycle.Event.
func (e SnapshotEvent) String() string {
	return fmt.Sprintf("#%d %s: %d changes, %d docs", e.Seq, e.Query, len(e.Snapshot.Changes()), e.Snapshot.Docs().Len())
}

type snapshotSource struct {
	snapshots <-chan *view.Snapshot
	onError   func(error)
	out       chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits a SnapshotEvent per
// snapshot read from snapshots. Nil snapshots are dropped. The event
// channel closes when snapshots closes or the start context ends.
// onError, if not nil, receives a failure of the forwarding goroutine.
func NewSource(snapshots <-chan *view.Snapshot, onError func(error)) lifecycle.Source {
	return &snapshotSource{
		snapshots: snapshots,
		onError:   onError,
		out:       make(chan lifecycle.Event),
	}
}

func (s *snapshotSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *snapshotSource) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lifecycle.Go(ctx, s.forward, lifecycle.WithErrorHandler(func(err error) {
		if s.onError != nil {
			s.onError(fmt.Errorf("snapshot source: %w", err))
		}
	}))
	return nil
}

func (s *snapshotSource) forward(ctx context.Context) error {
	defer close(s.out)
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-s.snapshots:
			if !ok {
				return nil
			}
			if snap == nil {
				continue
			}
			seq++
			e := SnapshotEvent{Seq: seq, Query: snap.Query().CanonicalID(), Snapshot: snap}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
