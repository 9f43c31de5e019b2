package platform

import (
	"fmt"
	"path/filepath"

	"github.com/aretw0/docview/pkg/adapters/fs"
	"github.com/aretw0/docview/pkg/query"
)

// New opens the directory at dir as a document source.
//
//	src, err := docview.Open("./rooms", docview.WithOrderBy("rank", query.Descending))
func New(dir string, opts ...Option) (*fs.Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	q, err := resolveQuery(dir, o)
	if err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("opening source", "path", dir, "query", q.String(), "pattern", o.pattern)
	}

	return fs.NewSource(fs.Config{
		Path:                   dir,
		Pattern:                o.pattern,
		Query:                  q,
		Logger:                 o.logger,
		ErrorHandler:           o.errorHandler,
		Debounce:               o.debounce,
		IncludeMetadataChanges: o.includeMetadataChanges,
	})
}

// resolveQuery applies the order-by options on top of the configured query,
// deriving the collection from the directory name when none is set.
func resolveQuery(dir string, o *options) (query.Query, error) {
	q := o.query
	if len(o.orderBy) == 0 {
		return q, nil
	}
	if q.Path().Len() == 0 {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return query.Query{}, err
		}
		q, err = query.Parse(filepath.Base(abs))
		if err != nil {
			return query.Query{}, fmt.Errorf("cannot derive collection from %s: %w", abs, err)
		}
	}
	for _, ob := range o.orderBy {
		q = q.OrderBy(ob.Field, ob.Direction)
	}
	return q, nil
}
