package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is the comparison applied by a Condition.
type Op int

const (
	OpEqual Op = iota
	// OpContains is a case-insensitive substring match.
	OpContains
	OpGreaterOrEqual
	OpLessOrEqual
)

// Sort keywords.
const (
	SortAsc    = "asc"
	SortDesc   = "desc"
	SortName   = "name"
	SortNombre = "nombre"
)

// Condition compares one field against a typed value (string, float64 or
// bool).
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of conditions, or a disjunction when Any is set.
// An empty filter matches everything.
type Filter struct {
	Conditions []Condition
	Any        bool
}

func (f Filter) Empty() bool {
	return len(f.Conditions) == 0
}

// SortSpec orders results by Field. An empty Field keeps natural order.
type SortSpec struct {
	Field      string
	Descending bool
}

// Plan is the compiled form of a listing request.
type Plan struct {
	Filter Filter
	Sort   SortSpec
	Page   int
	Skip   int
	Limit  int
}

// Compile translates listing parameters into a query plan for schema.
func Compile(p Params, schema Schema) (Plan, error) {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if !skipFits(p.Page, p.Limit) {
		return Plan{}, newError("page is out of range")
	}

	filter, err := compileFilter(p.Query, schema)
	if err != nil {
		return Plan{}, err
	}

	return Plan{
		Filter: filter,
		Sort:   compileSort(p.Sort, schema),
		Page:   p.Page,
		Skip:   (p.Page - 1) * p.Limit,
		Limit:  p.Limit,
	}, nil
}

func compileFilter(q string, schema Schema) (Filter, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Filter{}, nil
	}

	name, raw, ok := strings.Cut(q, ":")
	if !ok {
		conds := make([]Condition, 0, len(schema.TextFields))
		for _, field := range schema.TextFields {
			conds = append(conds, Condition{Field: field, Op: OpContains, Value: q})
		}
		return Filter{Conditions: conds, Any: true}, nil
	}

	name = strings.ToLower(strings.TrimSpace(name))
	rule, ok := schema.Fields[name]
	if !ok {
		return Filter{}, newError(fmt.Sprintf("unknown filter field %q", name))
	}

	value, err := rule.parse(strings.TrimSpace(raw))
	if err != nil {
		return Filter{}, newError(fmt.Sprintf("invalid value for %s: %v", name, err))
	}
	return Filter{Conditions: []Condition{{Field: rule.Field, Op: rule.Op, Value: value}}}, nil
}

func (r FieldRule) parse(raw string) (any, error) {
	if r.Normalize != nil {
		raw = r.Normalize(raw)
	}
	switch r.Kind {
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	default:
		if raw == "" {
			return nil, fmt.Errorf("empty value")
		}
		return raw, nil
	}
}

func compileSort(sort string, schema Schema) SortSpec {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case SortAsc:
		return SortSpec{Field: schema.NumericSort}
	case SortDesc:
		return SortSpec{Field: schema.NumericSort, Descending: true}
	case SortName, SortNombre:
		return SortSpec{Field: schema.NameSort}
	}
	return SortSpec{}
}
