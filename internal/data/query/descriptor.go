package query

import "fmt"

const (
	DefaultLimit  = 10
	DefaultSortBy = "id"
)

type FieldKind int

const (
	KindString FieldKind = iota
	KindBool
	KindInt
	KindEnum
)

type SortKind int

const (
	// SortField orders by a column of the listed entity.
	SortField SortKind = iota
	// SortRelation orders by a column of a belongs-to relation.
	SortRelation
)

// SortKey is resolved once by Build; adapters switch on Kind and never
// re-parse the dotted request value.
type SortKey struct {
	Kind     SortKind
	Relation string // relation name, only for SortRelation
	Field    string // request-facing field name
	Column   string // storage column on the sorted entity
}

func (k SortKey) String() string {
	if k.Kind == SortRelation {
		return k.Relation + "." + k.Field
	}
	return k.Field
}

type Sort struct {
	Key  SortKey
	Desc bool
}

type Condition struct {
	Column string
	Value  any
}

// Include names a relation to eager-load together with its own nested includes.
type Include struct {
	Relation string
	Children []Include
}

type Descriptor struct {
	Offset int
	// Limit <= 0 means unbounded. Build never produces it; internal callers do.
	Limit         int
	Search        string
	SearchColumns []string
	Filters       []Condition
	Sort          Sort
	Includes      []Include
}

type Filter struct {
	Param  string
	Column string
	Kind   FieldKind
}

type RelationSort struct {
	Relation string
	Field    string
	Column   string
}

// Spec is the per-entity declaration Build validates requests against.
type Spec struct {
	SearchColumns []string
	Filters       []Filter
	// SortFields maps request field names to columns.
	SortFields    map[string]string
	RelationSorts []RelationSort
	Includes      []Include
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
