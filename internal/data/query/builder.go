package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Build turns raw list parameters into a validated Descriptor.
// There is no upper bound on limit.
func Build(params url.Values, spec Spec) (Descriptor, error) {
	d := Descriptor{Limit: DefaultLimit}

	if raw := strings.TrimSpace(params.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Descriptor{}, Invalid("offset", "must be a non-negative integer, got %q", raw)
		}
		d.Offset = n
	}
	if raw := strings.TrimSpace(params.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Descriptor{}, Invalid("limit", "must be a positive integer, got %q", raw)
		}
		d.Limit = n
	}

	if term := strings.TrimSpace(params.Get("search")); term != "" && len(spec.SearchColumns) > 0 {
		d.Search = term
		d.SearchColumns = append([]string(nil), spec.SearchColumns...)
	}

	for _, f := range spec.Filters {
		raw, ok := params[f.Param]
		if !ok || len(raw) == 0 {
			continue
		}
		val, err := parseFilter(f, strings.TrimSpace(raw[0]))
		if err != nil {
			return Descriptor{}, err
		}
		if val == nil {
			continue
		}
		d.Filters = append(d.Filters, Condition{Column: f.Column, Value: val})
	}

	sort, err := resolveSort(params, spec)
	if err != nil {
		return Descriptor{}, err
	}
	d.Sort = sort
	d.Includes = spec.Includes
	return d, nil
}

func parseFilter(f Filter, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	switch f.Kind {
	case KindBool:
		b, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, Invalid(f.Param, "must be true or false, got %q", raw)
		}
		return b, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, Invalid(f.Param, "must be an integer, got %q", raw)
		}
		return n, nil
	case KindEnum:
		return strings.ToUpper(raw), nil
	default:
		return raw, nil
	}
}

func resolveSort(params url.Values, spec Spec) (Sort, error) {
	var s Sort
	switch order := strings.ToLower(strings.TrimSpace(params.Get("sortOrder"))); order {
	case "", "asc":
	case "desc":
		s.Desc = true
	default:
		return Sort{}, Invalid("sortOrder", "must be asc or desc, got %q", order)
	}

	by := strings.TrimSpace(params.Get("sortBy"))
	if by == "" {
		by = DefaultSortBy
	}
	if rel, field, dotted := strings.Cut(by, "."); dotted {
		for _, rs := range spec.RelationSorts {
			if rs.Relation == rel && rs.Field == field {
				s.Key = SortKey{Kind: SortRelation, Relation: rel, Field: field, Column: rs.Column}
				return s, nil
			}
		}
		return Sort{}, Invalid("sortBy", "unknown sort field %q", by)
	}
	col, ok := spec.SortFields[by]
	if !ok {
		return Sort{}, Invalid("sortBy", "unknown sort field %q", by)
	}
	s.Key = SortKey{Kind: SortField, Field: by, Column: col}
	return s, nil
}
