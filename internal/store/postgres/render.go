package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/EcoTrail/internal/query"
)

var fieldPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)*$`)

// statement accumulates a WHERE clause and its positional arguments.
type statement struct {
	conditions []string
	args       []any
}

func (s *statement) arg(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

func (s *statement) where() string {
	if len(s.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(s.conditions, " AND ")
}

// jsonPath renders a dotted field as a text[] path literal such as
// '{ratings,sustainability}'.
func jsonPath(field string) (string, error) {
	if !fieldPattern.MatchString(field) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	return "'{" + strings.ReplaceAll(field, ".", ",") + "}'", nil
}

// escapeLike escapes the LIKE metacharacters so text matches literally.
func escapeLike(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(text)
}

func (s *statement) add(c query.Constraint) error {
	if c == nil {
		return nil
	}
	for _, leaf := range query.Flatten(c) {
		cond, err := s.render(leaf)
		if err != nil {
			return err
		}
		if cond != "" {
			s.conditions = append(s.conditions, cond)
		}
	}
	return nil
}

func (s *statement) render(c query.Constraint) (string, error) {
	switch v := c.(type) {
	case query.TextContains:
		if len(v.Fields) == 0 {
			return "FALSE", nil
		}
		placeholder := s.arg("%" + escapeLike(v.Text) + "%")
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			path, err := jsonPath(f)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("doc #>> %s ILIKE %s", path, placeholder))
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil

	case query.Equals:
		path, err := jsonPath(v.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("doc #>> %s = %s", path, s.arg(v.Value)), nil

	case query.HasElement:
		path, err := jsonPath(v.Field)
		if err != nil {
			return "", err
		}
		p := s.arg(v.Value)
		return fmt.Sprintf("(doc #> %s @> jsonb_build_array(%s::text) OR doc #>> %s = %s)", path, p, path, p), nil

	case query.Range:
		path, err := jsonPath(v.Field)
		if err != nil {
			return "", err
		}
		isNumber := fmt.Sprintf("jsonb_typeof(doc #> %s) = 'number'", path)
		if v.Min == nil && v.Max == nil {
			return isNumber, nil
		}
		value := fmt.Sprintf("CASE WHEN %s THEN (doc #>> %s)::double precision END", isNumber, path)
		var bounds []string
		if v.Min != nil {
			bounds = append(bounds, fmt.Sprintf("%s >= %s", value, s.arg(*v.Min)))
		}
		if v.Max != nil {
			bounds = append(bounds, fmt.Sprintf("%s <= %s", value, s.arg(*v.Max)))
		}
		return strings.Join(bounds, " AND "), nil

	default:
		return "", fmt.Errorf("unsupported constraint %T", c)
	}
}

// orderBy renders sort keys over the document followed by insertion order.
// Missing fields sort first ascending and last descending.
func orderBy(keys []query.SortKey) (string, error) {
	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		path, err := jsonPath(k.Field)
		if err != nil {
			return "", err
		}
		if k.Descending {
			parts = append(parts, fmt.Sprintf("doc #> %s DESC NULLS LAST", path))
		} else {
			parts = append(parts, fmt.Sprintf("doc #> %s ASC NULLS FIRST", path))
		}
	}
	parts = append(parts, "seq")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func table(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}
