// Package core defines document identity, values and ordering.
package core

import (
	"fmt"
	"strings"
)

// Fields is the structured value of a document: field name to typed value,
// arbitrarily nested.
type Fields map[string]any

// Document is the central entity of the domain: a keyed, versioned value.
//
// Documents are immutable once constructed. An edit produces a new Document
// with the same Key and a higher Version. Callers must not mutate Data;
// documents are shared between Document Sets and snapshots.
type Document struct {
	Key     Key
	Version int64
	Data    Fields
}

// NewDocument builds a document, deep-copying data so the caller keeps
// ownership of its map.
func NewDocument(key Key, version int64, data map[string]any) Document {
	return Document{
		Key:     key,
		Version: version,
		Data:    Fields(cloneMap(data)),
	}
}

// Field resolves a dotted field path. ok is false when any segment is missing.
func (d Document) Field(path string) (value any, ok bool) {
	return lookupField(d.Data, path)
}

// Equal reports deep equality: same key, same version and equal values.
func (d Document) Equal(other Document) bool {
	return d.Key.Equal(other.Key) &&
		d.Version == other.Version &&
		EqualValues(d.Data, other.Data)
}

// String renders the document as "key(vN){...}".
func (d Document) String() string {
	keys := sortedKeys(d.Data)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %v", k, d.Data[k])
	}
	return fmt.Sprintf("%s(v%d){%s}", d.Key, d.Version, strings.Join(parts, ", "))
}

// Comparator orders documents. It must be a strict total order consistent
// across calls; violating that is undefined behavior and is not checked.
type Comparator func(a, b Document) int

// KeyOrder orders documents by key.
func KeyOrder(a, b Document) int {
	return a.Key.Compare(b.Key)
}
