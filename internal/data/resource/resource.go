package resource

import (
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
)

type Kind int

const (
	String Kind = iota
	Int
	Bool
	Enum
	Time
	JSON
)

type Field struct {
	Name     string
	Column   string
	Kind     Kind
	Enum     []string
	Nullable bool
	ReadOnly bool
}

type RelationKind int

const (
	// BelongsTo relations keep ForeignKey on the owning entity.
	BelongsTo RelationKind = iota
	// HasMany relations keep ForeignKey on the target entity.
	HasMany
)

type Relation struct {
	Name       string
	Field      string // struct field used for joins and preloads
	Target     string // resource name
	Kind       RelationKind
	ForeignKey string
	OrderBy    []string
	// MustExist makes writes fail when the referenced parent is absent.
	MustExist bool
}

type Op int

const (
	OpCreate Op = iota
	OpUpdate
)

// Hook runs on the column-keyed payload after coercion.
type Hook func(op Op, payload map[string]any)

// Validator runs after hooks and required checks.
type Validator func(op Op, payload map[string]any) error

type Resource struct {
	Name  string
	Table string
	Label string

	Fields        []Field
	Search        []string
	Filters       []string
	Relations     []Relation
	RelationSorts []query.RelationSort
	Includes      []query.Include
	Required      []string
	// Key is the natural composite key used by upserts.
	Key []string

	Hooks      []Hook
	Validators []Validator

	newOne  func() any
	newList func() any
}

// Define binds a resource declaration to its model type T.
func Define[T any](r Resource) *Resource {
	r.newOne = func() any { return new(T) }
	r.newList = func() any { return &[]T{} }
	return &r
}

// New returns a fresh *T.
func (r *Resource) New() any { return r.newOne() }

// NewList returns a fresh *[]T.
func (r *Resource) NewList() any { return r.newList() }

func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (r *Resource) FieldByColumn(col string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Column == col {
			return f, true
		}
	}
	return Field{}, false
}

func (r *Resource) Column(name string) string {
	if f, ok := r.Field(name); ok {
		return f.Column
	}
	return ""
}

func (r *Resource) Relation(name string) (Relation, bool) {
	for _, rel := range r.Relations {
		if rel.Name == name {
			return rel, true
		}
	}
	return Relation{}, false
}

// QuerySpec is the list-query declaration handed to query.Build.
func (r *Resource) QuerySpec() query.Spec {
	spec := query.Spec{
		SortFields:    make(map[string]string, len(r.Fields)),
		RelationSorts: r.RelationSorts,
		Includes:      r.Includes,
	}
	for _, name := range r.Search {
		spec.SearchColumns = append(spec.SearchColumns, r.Column(name))
	}
	for _, name := range r.Filters {
		f, ok := r.Field(name)
		if !ok {
			continue
		}
		spec.Filters = append(spec.Filters, query.Filter{Param: f.Name, Column: f.Column, Kind: filterKind(f.Kind)})
	}
	for _, f := range r.Fields {
		if f.Kind == JSON {
			continue
		}
		spec.SortFields[f.Name] = f.Column
	}
	return spec
}

func filterKind(k Kind) query.FieldKind {
	switch k {
	case Bool:
		return query.KindBool
	case Int:
		return query.KindInt
	case Enum:
		return query.KindEnum
	default:
		return query.KindString
	}
}
