// Package query defines the store-neutral predicate and ordering vocabulary
// used by the catalog. Each store backend renders these values into its own
// query language; the in-memory backend evaluates them directly.
package query

import (
	"fmt"
	"strings"
)

// Constraint is a single filter condition over a document. The set of
// implementations is closed so that every backend can render all of them.
type Constraint interface {
	// Match evaluates the constraint against a decoded JSON document.
	Match(doc map[string]any) bool
	String() string
	constraint()
}

// And matches documents that satisfy every member. An empty And matches
// every document.
type And []Constraint

// TextContains matches documents where at least one of Fields is a string
// containing Text, compared case-insensitively. Text is a literal, not a
// pattern.
type TextContains struct {
	Fields []string
	Text   string
}

// Equals matches documents whose Field equals Value exactly.
type Equals struct {
	Field string
	Value string
}

// HasElement matches documents whose Field is a list containing Value, or a
// scalar equal to Value.
type HasElement struct {
	Field string
	Value string
}

// Range matches documents whose numeric Field lies within [Min, Max]. A nil
// bound is open.
type Range struct {
	Field string
	Min   *float64
	Max   *float64
}

// SortKey orders results by Field.
type SortKey struct {
	Field      string
	Descending bool
}

func (And) constraint()          {}
func (TextContains) constraint() {}
func (Equals) constraint()       {}
func (HasElement) constraint()   {}
func (Range) constraint()        {}

// Match implements Constraint.
func (a And) Match(doc map[string]any) bool {
	for _, c := range a {
		if !c.Match(doc) {
			return false
		}
	}
	return true
}

// Match implements Constraint.
func (t TextContains) Match(doc map[string]any) bool {
	needle := strings.ToLower(t.Text)
	for _, f := range t.Fields {
		v, ok := Lookup(doc, f)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// Match implements Constraint.
func (e Equals) Match(doc map[string]any) bool {
	v, ok := Lookup(doc, e.Field)
	if !ok {
		return false
	}
	return anyElement(v, func(x any) bool {
		s, ok := x.(string)
		return ok && s == e.Value
	})
}

// Match implements Constraint.
func (h HasElement) Match(doc map[string]any) bool {
	v, ok := Lookup(doc, h.Field)
	if !ok {
		return false
	}
	return anyElement(v, func(x any) bool {
		s, ok := x.(string)
		return ok && s == h.Value
	})
}

// Match implements Constraint.
func (r Range) Match(doc map[string]any) bool {
	v, ok := Lookup(doc, r.Field)
	if !ok {
		return false
	}
	return anyElement(v, func(x any) bool {
		f, ok := ToFloat(x)
		if !ok {
			return false
		}
		if r.Min != nil && f < *r.Min {
			return false
		}
		if r.Max != nil && f > *r.Max {
			return false
		}
		return true
	})
}

func (a And) String() string {
	if len(a) == 0 {
		return "true"
	}
	parts := make([]string, len(a))
	for i, c := range a {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

func (t TextContains) String() string {
	return fmt.Sprintf("(%s) contains %q", strings.Join(t.Fields, " | "), t.Text)
}

func (e Equals) String() string { return fmt.Sprintf("%s = %q", e.Field, e.Value) }

func (h HasElement) String() string { return fmt.Sprintf("%q in %s", h.Value, h.Field) }

func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.Min != nil {
		lo = fmt.Sprint(*r.Min)
	}
	if r.Max != nil {
		hi = fmt.Sprint(*r.Max)
	}
	return fmt.Sprintf("%s in [%s, %s]", r.Field, lo, hi)
}

func (k SortKey) String() string {
	if k.Descending {
		return k.Field + " desc"
	}
	return k.Field + " asc"
}

// Flatten returns the leaf constraints of c with nested And groups expanded.
func Flatten(c Constraint) []Constraint {
	a, ok := c.(And)
	if !ok {
		return []Constraint{c}
	}
	var out []Constraint
	for _, m := range a {
		out = append(out, Flatten(m)...)
	}
	return out
}

// Lookup resolves a dotted field path such as "ratings.sustainability"
// against a decoded document. A null value counts as absent.
func Lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// ToFloat converts the numeric types produced by JSON and BSON decoding.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func anyElement(v any, pred func(any) bool) bool {
	if list, ok := v.([]any); ok {
		for _, x := range list {
			if pred(x) {
				return true
			}
		}
		return false
	}
	return pred(v)
}
