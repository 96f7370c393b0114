package query

import (
	"cmp"
	"slices"
	"strings"
)

// Document exposes named fields to in-memory evaluation.
type Document interface {
	Field(name string) any
}

// Match reports whether doc satisfies the filter.
func (f Filter) Match(doc Document) bool {
	if f.Empty() {
		return true
	}
	for _, c := range f.Conditions {
		ok := c.Match(doc)
		if f.Any && ok {
			return true
		}
		if !f.Any && !ok {
			return false
		}
	}
	return !f.Any
}

// Match reports whether doc satisfies the condition.
func (c Condition) Match(doc Document) bool {
	field := doc.Field(c.Field)

	switch want := c.Value.(type) {
	case bool:
		got, ok := field.(bool)
		return ok && c.Op == OpEqual && got == want
	case float64:
		got, ok := toFloat(field)
		if !ok {
			return false
		}
		switch c.Op {
		case OpGreaterOrEqual:
			return got >= want
		case OpLessOrEqual:
			return got <= want
		case OpEqual:
			return got == want
		}
	case string:
		got, ok := field.(string)
		if !ok {
			return false
		}
		switch c.Op {
		case OpEqual:
			return got == want
		case OpContains:
			return strings.Contains(strings.ToLower(got), strings.ToLower(want))
		}
	}
	return false
}

// Compare orders two documents by the sort field. Documents missing the
// field sort first.
func (s SortSpec) Compare(a, b Document) int {
	if s.Field == "" {
		return 0
	}
	c := compareValues(a.Field(s.Field), b.Field(s.Field))
	if s.Descending {
		return -c
	}
	return c
}

// Execute applies filter, sort and the skip/limit window to docs, keeping
// input order for ties. It returns the page and the number of documents
// matching the filter.
func Execute[T Document](docs []T, plan Plan) ([]T, int) {
	matched := make([]T, 0, len(docs))
	for _, d := range docs {
		if plan.Filter.Match(d) {
			matched = append(matched, d)
		}
	}
	total := len(matched)

	if plan.Sort.Field != "" {
		slices.SortStableFunc(matched, func(a, b T) int {
			return plan.Sort.Compare(a, b)
		})
	}

	start := min(max(plan.Skip, 0), total)
	end := total
	if plan.Limit > 0 {
		end = min(start+plan.Limit, total)
	}
	return matched[start:end], total
}

func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return 1
		}
		return cmp.Compare(fa, fb)
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 1
		}
		return strings.Compare(sa, sb)
	}
	if a == nil && b != nil {
		return -1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
