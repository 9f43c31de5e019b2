package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/query"
)

func TestParse(t *testing.T) {
	q, err := query.Parse("rooms/eros/messages")
	require.NoError(t, err)
	assert.Equal(t, "rooms/eros/messages", q.Path().String())

	_, err = query.Parse("rooms/eros")
	assert.ErrorIs(t, err, core.ErrInvalidPath)
}

func TestQuery_Comparator(t *testing.T) {
	q, err := query.Parse("users")
	require.NoError(t, err)
	q = q.OrderBy("age", query.Descending)

	young := core.NewDocument(core.MustKey("users/a"), 1, map[string]any{"age": 20})
	old := core.NewDocument(core.MustKey("users/b"), 1, map[string]any{"age": 40})
	ageless := core.NewDocument(core.MustKey("users/c"), 1, nil)
	twin := core.NewDocument(core.MustKey("users/d"), 1, map[string]any{"age": 40})

	cmp := q.Comparator()
	assert.Negative(t, cmp(old, young), "descending by age")
	assert.Negative(t, cmp(young, ageless), "missing fields sort first, reversed by desc")
	assert.Positive(t, cmp(old, twin), "key tie-break follows the last direction")
}

func TestQuery_EqualAndCanonicalID(t *testing.T) {
	base := query.AtPath(core.Path{"users"})
	a := base.OrderBy("age", query.Ascending)
	b := base.OrderBy("age", "")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(base))
	assert.Empty(t, base.OrderBys(), "builders must not mutate the receiver")
	assert.Equal(t, "users|ob:age asc,__name__ asc", a.CanonicalID())
}

func TestQuery_Matches(t *testing.T) {
	q := query.AtPath(core.Path{"users"})
	assert.True(t, q.Matches(core.NewDocument(core.MustKey("users/a"), 1, nil)))
	assert.False(t, q.Matches(core.NewDocument(core.MustKey("users/a/posts/p"), 1, nil)))
}

func TestParseDirection(t *testing.T) {
	d, err := query.ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, query.Descending, d)

	_, err = query.ParseDirection("sideways")
	assert.Error(t, err)
}
