// Package query describes the queries whose results are materialized as
// Document Sets. Only the collection path and sort order are modeled;
// deciding which documents belong to a result is the caller's job.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/docview/pkg/core"
)

// Direction of an order-by clause.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection accepts "asc", "desc" and their long forms. Empty means ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// OrderBy sorts results by a (dotted) field path.
type OrderBy struct {
	Field     string    `json:"field" yaml:"field" toml:"field"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" toml:"direction"`
}

// Query identifies a collection and the order of its results.
// It is a value type: builder methods return modified copies.
type Query struct {
	path    core.Path
	orderBy []OrderBy
}

// AtPath returns a query over every document directly in the collection at path.
func AtPath(path core.Path) Query {
	return Query{path: slices.Clone(path)}
}

// Parse builds a query from a slash-separated collection path.
func Parse(path string) (Query, error) {
	p, err := core.ParsePath(path)
	if err != nil {
		return Query{}, err
	}
	if p.Len()%2 != 1 {
		return Query{}, fmt.Errorf("%w: %q is not a collection path", core.ErrInvalidPath, path)
	}
	return AtPath(p), nil
}

// Path returns the collection path.
func (q Query) Path() core.Path {
	return slices.Clone(q.path)
}

// OrderBys returns the explicit order-by clauses.
func (q Query) OrderBys() []OrderBy {
	return slices.Clone(q.orderBy)
}

// OrderBy returns a copy of q with an additional sort clause.
func (q Query) OrderBy(field string, dir Direction) Query {
	if dir == "" {
		dir = Ascending
	}
	next := Query{path: q.path, orderBy: slices.Clone(q.orderBy)}
	next.orderBy = append(next.orderBy, OrderBy{Field: field, Direction: dir})
	return next
}

// Matches reports whether doc lives directly in the queried collection.
func (q Query) Matches(doc core.Document) bool {
	return doc.Key.CollectionPath().Equal(q.path)
}

// Comparator orders documents by each order-by field in turn (documents
// missing a field sort before those that have it), then by key in the
// direction of the last clause.
func (q Query) Comparator() core.Comparator {
	orderBy := slices.Clone(q.orderBy)
	keyDir := Ascending
	if len(orderBy) > 0 {
		keyDir = orderBy[len(orderBy)-1].Direction
	}
	return func(a, b core.Document) int {
		for _, ob := range orderBy {
			va, _ := a.Field(ob.Field)
			vb, _ := b.Field(ob.Field)
			if c := core.CompareValues(va, vb); c != 0 {
				return applyDirection(c, ob.Direction)
			}
		}
		return applyDirection(a.Key.Compare(b.Key), keyDir)
	}
}

func applyDirection(c int, dir Direction) int {
	if dir == Descending {
		return -c
	}
	return c
}

// Equal reports whether both queries have the same path and order.
func (q Query) Equal(other Query) bool {
	return q.path.Equal(other.path) && slices.Equal(q.orderBy, other.orderBy)
}

// CanonicalID is a stable string form, e.g. "rooms|ob:age desc,__name__ desc".
func (q Query) CanonicalID() string {
	var b strings.Builder
	b.WriteString(q.path.String())
	b.WriteString("|ob:")
	parts := make([]string, 0, len(q.orderBy)+1)
	keyDir := Ascending
	for _, ob := range q.orderBy {
		parts = append(parts, ob.Field+" "+string(ob.Direction))
		keyDir = ob.Direction
	}
	parts = append(parts, "__name__ "+string(keyDir))
	b.WriteString(strings.Join(parts, ","))
	return b.String()
}

// String is the canonical id.
func (q Query) String() string {
	return q.CanonicalID()
}
