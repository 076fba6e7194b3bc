package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/utafrali/EcoTrail/internal/query"
)

// RenderFilter translates a constraint into a MongoDB filter document.
// Leaves of a conjunction are merged into one document while their keys are
// distinct and combined with $and otherwise.
func RenderFilter(c query.Constraint) bson.D {
	if c == nil {
		return bson.D{}
	}
	leaves := query.Flatten(c)
	parts := make([]bson.D, 0, len(leaves))
	for _, leaf := range leaves {
		parts = append(parts, renderLeaf(leaf))
	}

	merged := bson.D{}
	seen := make(map[string]bool)
	for _, p := range parts {
		for _, e := range p {
			if seen[e.Key] {
				and := make(bson.A, len(parts))
				for i, p := range parts {
					and[i] = p
				}
				return bson.D{{Key: "$and", Value: and}}
			}
			seen[e.Key] = true
			merged = append(merged, e)
		}
	}
	return merged
}

func renderLeaf(c query.Constraint) bson.D {
	switch v := c.(type) {
	case query.TextContains:
		return renderText(v)
	case query.Equals:
		return bson.D{{Key: v.Field, Value: v.Value}}
	case query.HasElement:
		return bson.D{{Key: v.Field, Value: bson.D{{Key: "$in", Value: bson.A{v.Value}}}}}
	case query.Range:
		return bson.D{{Key: v.Field, Value: renderRange(v)}}
	case query.And:
		return RenderFilter(v)
	default:
		return bson.D{}
	}
}

// renderText matches the literal text case-insensitively in any of the
// fields, escaping regex metacharacters.
func renderText(t query.TextContains) bson.D {
	pattern := regexp.QuoteMeta(t.Text)
	clause := func(field string) bson.D {
		return bson.D{{Key: field, Value: bson.D{
			{Key: "$regex", Value: pattern},
			{Key: "$options", Value: "i"},
		}}}
	}
	if len(t.Fields) == 1 {
		return clause(t.Fields[0])
	}
	or := make(bson.A, 0, len(t.Fields))
	for _, f := range t.Fields {
		or = append(or, clause(f))
	}
	return bson.D{{Key: "$or", Value: or}}
}

func renderRange(r query.Range) bson.D {
	bounds := bson.D{}
	if r.Min != nil {
		bounds = append(bounds, bson.E{Key: "$gte", Value: *r.Min})
	}
	if r.Max != nil {
		bounds = append(bounds, bson.E{Key: "$lte", Value: *r.Max})
	}
	if len(bounds) == 0 {
		bounds = append(bounds, bson.E{Key: "$type", Value: "number"})
	}
	return bounds
}

// RenderSort translates sort keys into a MongoDB sort document, or nil when
// there are none.
func RenderSort(keys []query.SortKey) bson.D {
	if len(keys) == 0 {
		return nil
	}
	out := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		out = append(out, bson.E{Key: k.Field, Value: dir})
	}
	return out
}
