package query

// Kind is the type a filter value is parsed into.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// FieldRule describes how a "field:value" query term is compiled.
type FieldRule struct {
	Field     string
	Op        Op
	Kind      Kind
	Normalize func(string) string
}

// Schema describes the queryable surface of one entity type.
type Schema struct {
	// Fields maps accepted query prefixes to their rule.
	Fields map[string]FieldRule
	// TextFields are matched by free-text queries, any of them may match.
	TextFields []string
	// NumericSort is the field ordered by sort=asc|desc.
	NumericSort string
	// NameSort is the field ordered by sort=name.
	NameSort string
}
