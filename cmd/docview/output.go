package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/view"
)

type changeJSON struct {
	Type     view.ChangeType `json:"type"`
	Key      core.Key        `json:"key"`
	OldIndex int             `json:"oldIndex"`
	NewIndex int             `json:"newIndex"`
	Version  int64           `json:"version"`
	Data     core.Fields     `json:"data,omitempty"`
}

type snapshotJSON struct {
	Query            string       `json:"query"`
	Docs             int          `json:"docs"`
	FromCache        bool         `json:"fromCache"`
	SyncStateChanged bool         `json:"syncStateChanged"`
	HasPendingWrites bool         `json:"hasPendingWrites"`
	Changes          []changeJSON `json:"changes"`
}

func toJSON(snap *view.Snapshot) snapshotJSON {
	changes := snap.Changes()
	out := snapshotJSON{
		Query:            snap.Query().CanonicalID(),
		Docs:             snap.Docs().Len(),
		FromCache:        snap.FromCache(),
		SyncStateChanged: snap.SyncStateChanged(),
		HasPendingWrites: snap.HasPendingWrites(),
		Changes:          make([]changeJSON, 0, len(changes)),
	}
	for _, c := range changes {
		out.Changes = append(out.Changes, changeJSON{
			Type:     c.Type,
			Key:      c.Doc.Key,
			OldIndex: c.OldIndex,
			NewIndex: c.NewIndex,
			Version:  c.Doc.Version,
			Data:     c.Doc.Data,
		})
	}
	return out
}

// printSnapshot writes snap as one JSON object per line, or as text.
func printSnapshot(w io.Writer, snap *view.Snapshot, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(toJSON(snap))
	}

	if _, err := fmt.Fprintf(w, "# %s docs=%d fromCache=%t pending=%t\n",
		snap.Query(), snap.Docs().Len(), snap.FromCache(), snap.HasPendingWrites()); err != nil {
		return err
	}
	for _, c := range snap.Changes() {
		if _, err := fmt.Fprintf(w, "%-8s %3d -> %3d  %s\n", c.Type, c.OldIndex, c.NewIndex, c.Doc); err != nil {
			return err
		}
	}
	return nil
}
