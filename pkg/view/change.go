package view

import (
	"fmt"

	"github.com/aretw0/docview/pkg/core"
)

// ChangeType classifies a Change.
type ChangeType string

const (
	Added    ChangeType = "added"
	Removed  ChangeType = "removed"
	Modified ChangeType = "modified"
	// Metadata marks a document whose content is unchanged but whose
	// pending-write or cache state changed.
	Metadata ChangeType = "metadata"
)

// Change is one entry of a snapshot's diff.
//
// Doc is the new document, or the removed document for Removed changes.
// OldDoc is the prior document for Modified and Metadata changes.
// OldIndex and NewIndex locate the change in a list being replayed in
// change order: -1 means "not applicable" (no OldIndex for Added,
// no NewIndex for Removed).
type Change struct {
	Type     ChangeType
	Doc      core.Document
	OldDoc   core.Document
	OldIndex int
	NewIndex int
}

// Equal compares type, documents and positions.
func (c Change) Equal(other Change) bool {
	return c.Type == other.Type &&
		c.Doc.Equal(other.Doc) &&
		c.OldDoc.Equal(other.OldDoc) &&
		c.OldIndex == other.OldIndex &&
		c.NewIndex == other.NewIndex
}

func (c Change) String() string {
	switch c.Type {
	case Modified, Metadata:
		return fmt.Sprintf("%s(%s -> %s)", c.Type, c.OldDoc, c.Doc)
	}
	return fmt.Sprintf("%s(%s)", c.Type, c.Doc)
}
