// Package typed decodes snapshot documents into Go structs.
package typed

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/view"
)

// DocumentModel is a typed view of a core.Document.
type DocumentModel[T any] struct {
	Key              core.Key
	Version          int64
	Data             T // The decoded document value
	HasPendingWrites bool
}

// Change is a typed view of a view.Change.
type Change[T any] struct {
	Type     view.ChangeType
	Doc      *DocumentModel[T]
	OldIndex int
	NewIndex int
}

// Decode converts doc's value into T through its JSON form.
func Decode[T any](doc core.Document, pending bool) (*DocumentModel[T], error) {
	dataBytes, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("document marshal failed: %w", err)
	}

	var data T
	if err := json.Unmarshal(dataBytes, &data); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &DocumentModel[T]{
		Key:              doc.Key,
		Version:          doc.Version,
		Data:             data,
		HasPendingWrites: pending,
	}, nil
}

// Documents decodes every document of snap in result order.
func Documents[T any](snap *view.Snapshot) ([]*DocumentModel[T], error) {
	mutated := snap.MutatedKeys()
	result := make([]*DocumentModel[T], 0, snap.Docs().Len())
	for d := range snap.Docs().All() {
		model, err := Decode[T](d, mutated.Has(d.Key))
		if err != nil {
			return nil, fmt.Errorf("failed to process document %s: %w", d.Key, err)
		}
		result = append(result, model)
	}
	return result, nil
}

// Changes decodes the visible change list of snap.
func Changes[T any](snap *view.Snapshot) ([]Change[T], error) {
	mutated := snap.MutatedKeys()
	changes := snap.Changes()
	result := make([]Change[T], 0, len(changes))
	for _, c := range changes {
		model, err := Decode[T](c.Doc, mutated.Has(c.Doc.Key))
		if err != nil {
			return nil, fmt.Errorf("failed to process %s change for %s: %w", c.Type, c.Doc.Key, err)
		}
		result = append(result, Change[T]{
			Type:     c.Type,
			Doc:      model,
			OldIndex: c.OldIndex,
			NewIndex: c.NewIndex,
		})
	}
	return result, nil
}
