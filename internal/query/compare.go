package query

import (
	"sort"
	"strings"
)

// SortDocuments orders docs in place by keys. The sort is stable, so ties and
// an empty key list keep insertion order. Missing values sort before numbers,
// and numbers sort before strings.
func SortDocuments(docs []map[string]any, keys []SortKey) {
	SortBy(docs, func(d map[string]any) map[string]any { return d }, keys)
}

// SortBy is SortDocuments for items that carry a decoded document.
func SortBy[T any](items []T, body func(T) map[string]any, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			a, aok := Lookup(body(items[i]), k.Field)
			b, bok := Lookup(body(items[j]), k.Field)
			c := compareValues(a, aok, b, bok)
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func rank(v any, ok bool) int {
	if !ok {
		return 0
	}
	if _, isNum := ToFloat(v); isNum {
		return 1
	}
	if _, isStr := v.(string); isStr {
		return 2
	}
	return 3
}

func compareValues(a any, aok bool, b any, bok bool) int {
	ra, rb := rank(a, aok), rank(b, bok)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, _ := ToFloat(a)
		fb, _ := ToFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	case 2:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}
