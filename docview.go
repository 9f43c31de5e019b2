package docview

import (
	"log/slog"
	"time"

	"github.com/aretw0/docview/internal/platform"
	"github.com/aretw0/docview/pkg/adapters/fs"
	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

// --- Types ---

type (
	// Document is an immutable record identified by a Key.
	Document = core.Document
	// Key identifies a document.
	Key = core.Key
	// KeySet is a persistent set of keys.
	KeySet = core.KeySet
	// Query names a collection and the order of its results.
	Query = query.Query
	// Direction of an order-by clause.
	Direction = query.Direction
	// DocumentSet is an ordered, persistent set of documents.
	DocumentSet = docset.DocumentSet
	// Change describes how one document moved between two results.
	Change = view.Change
	// ChangeType classifies a Change.
	ChangeType = view.ChangeType
	// Snapshot is one observed result of a query.
	Snapshot = view.Snapshot
	// SnapshotParams are the inputs of NewSnapshot.
	SnapshotParams = view.SnapshotParams
	// Source reads a directory as the result of a query.
	Source = fs.Source
)

const (
	Added    = view.Added
	Removed  = view.Removed
	Modified = view.Modified
	Metadata = view.Metadata

	Ascending  = query.Ascending
	Descending = query.Descending
)

// --- Configuration ---

// Option defines a functional option for configuring a Source.
type Option = platform.Option

// WithLogger sets the logger for the source and its watcher.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithPattern selects which files are documents.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithQuery sets the query the directory is read as.
func WithQuery(q Query) Option {
	return platform.WithQuery(q)
}

// WithOrderBy appends an order-by clause to the query.
func WithOrderBy(field string, dir Direction) Option {
	return platform.WithOrderBy(field, dir)
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithIncludeMetadataChanges raises snapshots whose only change is metadata.
func WithIncludeMetadataChanges(include bool) Option {
	return platform.WithIncludeMetadataChanges(include)
}

// WithErrorHandler registers a callback for load and watcher errors.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// --- Factory ---

// Open returns a Source for the directory at dir.
func Open(dir string, opts ...Option) (*Source, error) {
	return platform.New(dir, opts...)
}

// --- Engine ---

// ParseQuery returns a query over the collection at path.
func ParseQuery(path string) (Query, error) {
	return query.Parse(path)
}

// NewDocument builds a document, copying data.
func NewDocument(key Key, version int64, data map[string]any) Document {
	return core.NewDocument(key, version, data)
}

// NewSet builds a set ordered by q. It panics if two documents share a key.
func NewSet(q Query, docs ...Document) *DocumentSet {
	return docset.Of(q.Comparator(), docs...)
}

// Diff returns the ordered changes turning oldDocs into newDocs.
func Diff(oldDocs, newDocs *DocumentSet, metadataChanged KeySet) []Change {
	return view.Diff(oldDocs, newDocs, metadataChanged)
}

// NewSnapshot assembles a snapshot.
func NewSnapshot(p SnapshotParams) *Snapshot {
	return view.NewSnapshot(p)
}

// ParseKey parses a slash-separated document path.
func ParseKey(path string) (Key, error) {
	return core.ParseKey(path)
}

// NewKeySet returns a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	return core.NewKeySet(keys...)
}
