package fs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoders(t *testing.T) {
	decoders := DefaultDecoders()

	tests := []struct {
		ext   string
		input string
		want  map[string]any
	}{
		{".json", `{"title": "T", "tags": ["a", "b"], "meta": {"foo": "bar"}, "count": 42}`,
			map[string]any{"title": "T", "tags": []any{"a", "b"}, "meta": map[string]any{"foo": "bar"}, "count": 42.0}},
		{".yaml", "title: T\ntags: [a, b]\nmeta:\n  foo: bar\ncount: 42\n",
			map[string]any{"title": "T", "tags": []any{"a", "b"}, "meta": map[string]any{"foo": "bar"}, "count": 42}},
		{".yml", "one: 1\nnested:\n  2: two\n",
			map[string]any{"one": 1, "nested": map[string]any{"2": "two"}}},
		{".json", "  \n", map[string]any{}},
		{".yaml", "", map[string]any{}},
		{".json", "null", map[string]any{}},
	}

	for _, tc := range tests {
		t.Run(tc.ext, func(t *testing.T) {
			got, err := decoders[tc.ext].Decode(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecoders_Invalid(t *testing.T) {
	_, err := JSONDecoder{}.Decode(strings.NewReader("[1, 2]"))
	assert.Error(t, err)

	_, err = YAMLDecoder{}.Decode(strings.NewReader("- a\n- b\n"))
	assert.Error(t, err)
}

func TestYAMLDecoder_Timestamp(t *testing.T) {
	got, err := YAMLDecoder{}.Decode(strings.NewReader("at: 2024-01-02T03:04:05Z\n"))
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, got["at"])
}
