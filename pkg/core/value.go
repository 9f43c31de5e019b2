package core

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Value kinds in cross-type sort order.
const (
	kindNull = iota
	kindBool
	kindNumber
	kindTimestamp
	kindString
	kindBytes
	kindReference
	kindArray
	kindMap
	kindOther
)

func kindOf(v any) int {
	switch v.(type) {
	case nil:
		return kindNull
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return kindNumber
	case time.Time:
		return kindTimestamp
	case string:
		return kindString
	case []byte:
		return kindBytes
	case Key:
		return kindReference
	case []any:
		return kindArray
	case map[string]any, Fields:
		return kindMap
	}
	return kindOther
}

// CompareValues defines a total order over document field values.
// Values of different kinds order as
// null < bool < number < timestamp < string < bytes < reference < array < map.
// Integers and floats compare numerically and exactly, so 1 and 1.0 tie;
// NaN sorts before every other number.
// Values of unsupported types sort last, ordered by their printed form.
func CompareValues(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case kindNull:
		return 0
	case kindBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		}
		return 1
	case kindNumber:
		return compareNumbers(a, b)
	case kindTimestamp:
		return a.(time.Time).Compare(b.(time.Time))
	case kindString:
		return strings.Compare(a.(string), b.(string))
	case kindBytes:
		return bytes.Compare(a.([]byte), b.([]byte))
	case kindReference:
		return a.(Key).Compare(b.(Key))
	case kindArray:
		return compareArrays(a.([]any), b.([]any))
	case kindMap:
		return compareMaps(asMap(a), asMap(b))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// EqualValues reports value equality. It follows CompareValues except that
// an integer never equals a float, so 1 and 1.0 differ.
func EqualValues(a, b any) bool {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case kindNumber:
		return equalNumbers(a, b)
	case kindArray:
		return slices.EqualFunc(a.([]any), b.([]any), EqualValues)
	case kindMap:
		ma, mb := asMap(a), asMap(b)
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !EqualValues(va, vb) {
				return false
			}
		}
		return true
	}
	return CompareValues(a, b) == 0
}

func asMap(v any) map[string]any {
	if m, ok := v.(Fields); ok {
		return m
	}
	return v.(map[string]any)
}

func compareArrays(a, b []any) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareMaps(a, b map[string]any) int {
	ka, kb := sortedKeys(a), sortedKeys(b)
	n := min(len(ka), len(kb))
	for i := 0; i < n; i++ {
		if c := strings.Compare(ka[i], kb[i]); c != 0 {
			return c
		}
		if c := CompareValues(a[ka[i]], b[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func compareNumbers(a, b any) int {
	ia, aInt := asInt(a)
	ib, bInt := asInt(b)
	switch {
	case aInt && bInt:
		return cmp.Compare(ia, ib)
	case aInt:
		return compareIntFloat(ia, asFloat(b))
	case bInt:
		return -compareIntFloat(ib, asFloat(a))
	}
	fa, fb := asFloat(a), asFloat(b)
	aNaN, bNaN := math.IsNaN(fa), math.IsNaN(fb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return cmp.Compare(fa, fb)
}

// compareIntFloat compares without converting i to float64, which would
// round integers beyond 2^53.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f < math.MinInt64:
		return 1
	case f >= math.MaxInt64: // float64(MaxInt64) is 2^63
		return -1
	}
	whole := math.Floor(f)
	if c := cmp.Compare(i, int64(whole)); c != 0 {
		return c
	}
	if f > whole {
		return -1
	}
	return 0
}

func equalNumbers(a, b any) bool {
	ia, aInt := asInt(a)
	ib, bInt := asInt(b)
	if aInt != bInt {
		return false
	}
	if aInt {
		return ia == ib
	}
	fa, fb := asFloat(a), asFloat(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return math.IsNaN(fa) && math.IsNaN(fb)
	}
	return fa == fb
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	i, _ := asInt(v)
	return float64(i)
}

// CloneValue deep-copies maps, arrays and byte slices. Scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Fields:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []byte:
		return bytes.Clone(t)
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// lookupField resolves a dotted field path ("address.city") inside data.
func lookupField(data map[string]any, field string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(field, ".") {
		var m map[string]any
		switch t := cur.(type) {
		case map[string]any:
			m = t
		case Fields:
			m = t
		default:
			return nil, false
		}
		v, ok := m[part]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
