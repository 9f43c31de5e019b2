package core

import (
	"strings"

	"github.com/benbjohnson/immutable"
)

// KeySet is a persistent, key-ordered set of document keys.
// Add and Delete return new values; the receiver is never modified.
// The zero value is an empty set.
type KeySet struct {
	m *immutable.SortedMap[Key, struct{}]
}

// NewKeySet builds a set holding keys.
func NewKeySet(keys ...Key) KeySet {
	s := KeySet{}
	for _, k := range keys {
		s = s.Add(k)
	}
	return s
}

func (s KeySet) sorted() *immutable.SortedMap[Key, struct{}] {
	if s.m == nil {
		return immutable.NewSortedMap[Key, struct{}](keyComparer{})
	}
	return s.m
}

// Add returns a set that also holds k.
func (s KeySet) Add(k Key) KeySet {
	return KeySet{m: s.sorted().Set(k, struct{}{})}
}

// Delete returns a set without k.
func (s KeySet) Delete(k Key) KeySet {
	if s.m == nil {
		return s
	}
	return KeySet{m: s.m.Delete(k)}
}

// Has reports membership.
func (s KeySet) Has(k Key) bool {
	if s.m == nil {
		return false
	}
	_, ok := s.m.Get(k)
	return ok
}

// Len returns the number of keys.
func (s KeySet) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Empty reports whether the set holds no keys.
func (s KeySet) Empty() bool {
	return s.Len() == 0
}

// Keys returns the keys in ascending order.
func (s KeySet) Keys() []Key {
	if s.m == nil {
		return nil
	}
	out := make([]Key, 0, s.m.Len())
	itr := s.m.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		out = append(out, k)
	}
	return out
}

// Union returns a set holding the keys of both sets.
func (s KeySet) Union(other KeySet) KeySet {
	if s.Len() < other.Len() {
		s, other = other, s
	}
	for _, k := range other.Keys() {
		s = s.Add(k)
	}
	return s
}

// Equal reports whether both sets hold the same keys.
func (s KeySet) Equal(other KeySet) bool {
	if s.Len() != other.Len() {
		return false
	}
	a, b := s.Keys(), other.Keys()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders the keys as "{a/1, b/2}".
func (s KeySet) String() string {
	keys := s.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
