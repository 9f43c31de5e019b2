package core_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/docview/pkg/core"
)

func TestParseKey(t *testing.T) {
	k, err := core.ParseKey("rooms/eros/messages/m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", k.ID())
	assert.Equal(t, "rooms/eros/messages", k.CollectionPath().String())
	assert.Equal(t, "rooms/eros/messages/m1", k.String())

	for _, bad := range []string{"", "rooms", "rooms/eros/messages", "rooms//x"} {
		_, err := core.ParseKey(bad)
		assert.ErrorIs(t, err, core.ErrInvalidKey, bad)
	}
}

func TestKeyOrdering(t *testing.T) {
	a := core.MustKey("c/a")
	b := core.MustKey("c/b")
	nested := core.MustKey("c/a/sub/x")

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Negative(t, a.Compare(nested), "a prefix sorts first")
	assert.True(t, a.Equal(core.MustKey("/c/a/")))
}

func TestKeySet_Persistent(t *testing.T) {
	empty := core.KeySet{}
	one := empty.Add(core.MustKey("c/b"))
	two := one.Add(core.MustKey("c/a"))

	assert.True(t, empty.Empty())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())
	assert.Equal(t, "{c/a, c/b}", two.String())

	removed := two.Delete(core.MustKey("c/b"))
	assert.False(t, removed.Has(core.MustKey("c/b")))
	assert.True(t, two.Has(core.MustKey("c/b")), "original set must be unaffected")

	assert.True(t, two.Equal(core.NewKeySet(core.MustKey("c/b"), core.MustKey("c/a"))))
	assert.True(t, one.Union(core.NewKeySet(core.MustKey("c/a"))).Equal(two))
}

func TestCompareValues_CrossKind(t *testing.T) {
	ordered := []any{
		nil,
		false,
		true,
		math.NaN(),
		-1,
		1.5,
		int64(2),
		time.Unix(0, 0),
		"a",
		"b",
		[]byte("a"),
		core.MustKey("c/a"),
		[]any{1, 2},
		[]any{1, 2, 3},
		map[string]any{"a": 1},
		map[string]any{"b": 0},
	}
	for i := 0; i < len(ordered)-1; i++ {
		assert.Negative(t, core.CompareValues(ordered[i], ordered[i+1]), "%v < %v", ordered[i], ordered[i+1])
		assert.Positive(t, core.CompareValues(ordered[i+1], ordered[i]), "%v > %v", ordered[i+1], ordered[i])
	}
	assert.Zero(t, core.CompareValues(1, 1.0))
	assert.False(t, core.EqualValues(1, 1.0), "integer and float are distinct values")
	assert.True(t, core.EqualValues(math.NaN(), math.NaN()))
	assert.True(t, core.EqualValues(
		map[string]any{"n": map[string]any{"x": []any{1, "a"}}},
		core.Fields{"n": core.Fields{"x": []any{int64(1), "a"}}},
	))
}

func TestCompareValues_IntegerFloatExact(t *testing.T) {
	const big = int64(1) << 53
	tests := []struct {
		a, b any
		want int
	}{
		{big + 1, float64(big), 1},
		{float64(big), big, 0},
		{big + 1, big, 1},
		{big - 1, float64(big), -1},
		{math.MaxInt64, math.Pow(2, 63), -1},
		{math.MinInt64, -math.Pow(2, 63), 0},
		{math.MinInt64, math.Inf(-1), 1},
		{int64(-2), -1.5, -1},
		{int64(-1), -1.5, 1},
		{int64(1), 1.5, -1},
		{int64(2), 1.5, 1},
		{int64(0), math.NaN(), 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, core.CompareValues(tc.a, tc.b), "compare(%v, %v)", tc.a, tc.b)
		assert.Equal(t, -tc.want, core.CompareValues(tc.b, tc.a), "compare(%v, %v)", tc.b, tc.a)
	}
}

func TestDocument_ImmutableData(t *testing.T) {
	src := map[string]any{"title": "draft", "nested": map[string]any{"n": 1}}
	doc := core.NewDocument(core.MustKey("notes/a"), 1, src)

	src["title"] = "changed"
	src["nested"].(map[string]any)["n"] = 2

	title, ok := doc.Field("title")
	require.True(t, ok)
	assert.Equal(t, "draft", title)

	n, ok := doc.Field("nested.n")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = doc.Field("nested.missing")
	assert.False(t, ok)
}

func TestDocument_Equal(t *testing.T) {
	k := core.MustKey("notes/a")
	v1 := core.NewDocument(k, 1, map[string]any{"a": 1})

	assert.True(t, v1.Equal(core.NewDocument(k, 1, map[string]any{"a": 1})))
	assert.False(t, v1.Equal(core.NewDocument(k, 2, map[string]any{"a": 1})), "version differs")
	assert.False(t, v1.Equal(core.NewDocument(k, 1, map[string]any{"a": 2})), "value differs")
	assert.False(t, v1.Equal(core.NewDocument(k, 1, map[string]any{"a": 1.0})), "number kind differs")
	assert.False(t, v1.Equal(core.NewDocument(k, 1, map[string]any{"a": 1, "b": nil})), "extra field")
	assert.False(t, v1.Equal(core.NewDocument(core.MustKey("notes/b"), 1, map[string]any{"a": 1})))
	assert.Equal(t, "notes/a(v1){a: 1}", v1.String())
}
