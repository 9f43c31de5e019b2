package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/docview/pkg/query"
)

// options holds the internal configuration for a directory source.
type options struct {
	logger                 *slog.Logger
	pattern                string
	query                  query.Query
	orderBy                []query.OrderBy
	debounce               time.Duration
	includeMetadataChanges bool
	errorHandler           func(error)
}

// Option defines a functional option for configuring a source.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the source and its watcher.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPattern selects which files are documents (doublestar syntax, matched
// against file names). Defaults to "*.{yaml,yml,json}".
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithQuery sets the query the directory is read as.
// By default the collection is named after the directory.
func WithQuery(q query.Query) Option {
	return func(o *options) {
		o.query = q
	}
}

// WithOrderBy appends an order-by clause to the query.
func WithOrderBy(field string, dir query.Direction) Option {
	return func(o *options) {
		o.orderBy = append(o.orderBy, query.OrderBy{Field: field, Direction: dir})
	}
}

// WithDebounce sets the quiet period between a filesystem event and the reload.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithIncludeMetadataChanges raises snapshots whose only change is metadata.
func WithIncludeMetadataChanges(include bool) Option {
	return func(o *options) {
		o.includeMetadataChanges = include
	}
}

// WithErrorHandler registers a callback for errors occurring during loads
// and the Watch loop (undecodable files, watcher failures), which are
// otherwise only logged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
