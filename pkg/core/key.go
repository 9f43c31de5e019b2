package core

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Path is a slash-separated resource path (e.g. "rooms/eros/messages").
type Path []string

// ParsePath splits a slash-separated path into its segments.
// Empty segments are rejected.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Path{}, nil
	}
	segments := strings.Split(s, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}
	}
	return Path(segments), nil
}

// String renders the path with "/" separators.
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p)
}

// Child returns a new path with segment appended. The receiver is unchanged.
func (p Path) Child(segment string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, segment)
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[: len(p)-1 : len(p)-1]
}

// Compare orders paths segment by segment; a prefix sorts first.
func (p Path) Compare(other Path) int {
	n := min(len(p), len(other))
	for i := 0; i < n; i++ {
		if c := strings.Compare(p[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p) < len(other):
		return -1
	case len(p) > len(other):
		return 1
	}
	return 0
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return p.Compare(other) == 0
}

// Key identifies a document. It is a path with an even number of segments:
// collection/doc, optionally nested (collection/doc/sub/doc).
// The zero Key is not valid and sorts before every valid key.
type Key struct {
	path Path
}

// NewKey builds a key from a document path, validating its shape.
func NewKey(path Path) (Key, error) {
	if len(path) == 0 || len(path)%2 != 0 {
		return Key{}, fmt.Errorf("%w: %q must have an even, non-zero number of segments", ErrInvalidKey, path.String())
	}
	for _, seg := range path {
		if seg == "" || strings.Contains(seg, "/") {
			return Key{}, fmt.Errorf("%w: malformed segment in %q", ErrInvalidKey, path.String())
		}
	}
	cp := make(Path, len(path))
	copy(cp, path)
	return Key{path: cp}, nil
}

// ParseKey parses a slash-separated document path into a Key.
func ParseKey(s string) (Key, error) {
	p, err := ParsePath(s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewKey(p)
}

// MustKey is like ParseKey but panics on malformed input.
// Intended for fixtures and tests.
func MustKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Path returns a copy of the key's full path.
func (k Key) Path() Path {
	out := make(Path, len(k.path))
	copy(out, k.path)
	return out
}

// ID is the last path segment.
func (k Key) ID() string {
	if len(k.path) == 0 {
		return ""
	}
	return k.path[len(k.path)-1]
}

// CollectionPath is the path of the collection holding the document.
func (k Key) CollectionPath() Path {
	return k.path.Parent()
}

// String renders the full document path.
func (k Key) String() string {
	return k.path.String()
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return len(k.path) == 0
}

// Compare orders keys lexicographically by path segment.
func (k Key) Compare(other Key) int {
	return k.path.Compare(other.path)
}

// Equal reports key equality.
func (k Key) Equal(other Key) bool {
	return k.Compare(other) == 0
}

// MarshalText renders the key as its path so keys can be used in JSON/YAML.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a document path.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// keyComparer adapts Key ordering to immutable.Comparer.
type keyComparer struct{}

func (keyComparer) Compare(a, b Key) int {
	return a.Compare(b)
}

// KeyComparer returns the comparer used by key-indexed persistent maps.
func KeyComparer() immutable.Comparer[Key] {
	return keyComparer{}
}
