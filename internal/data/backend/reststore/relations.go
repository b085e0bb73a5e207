package reststore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
)

// inChunk bounds the number of ids per in.(...) filter to keep URLs short.
const inChunk = 100

// listByRelation sorts by a belongs-to column without server-side joins:
// page through every matching (id, fk) pair, fetch the related sort values,
// order in memory with an id tie-break, then load only the requested page.
func (s *Store) listByRelation(ctx context.Context, res *resource.Resource, d query.Descriptor, params url.Values) ([]row, int64, error) {
	key := d.Sort.Key
	rel, ok := res.Relation(key.Relation)
	if !ok || rel.Kind != resource.BelongsTo {
		return nil, 0, fmt.Errorf("sort %s: %q is not a belongs-to relation", res.Label, key.Relation)
	}
	target, ok := s.cat.Lookup(rel.Target)
	if !ok {
		return nil, 0, fmt.Errorf("sort %s: unknown resource %q", res.Label, rel.Target)
	}

	params.Set("select", "id,"+rel.ForeignKey)
	refs, total, err := s.fetchRange(ctx, "list", res, params, 0, 0)
	if err != nil {
		return nil, 0, err
	}

	related, err := s.fetchIn(ctx, target, "id", "id,"+key.Column, distinct(refs, rel.ForeignKey), nil)
	if err != nil {
		return nil, 0, err
	}
	sortValues := make(map[string]any, len(related))
	for _, r := range related {
		sortValues[stringValue(r["id"])] = r[key.Column]
	}

	sort.SliceStable(refs, func(i, j int) bool {
		a := sortValues[stringValue(refs[i][rel.ForeignKey])]
		b := sortValues[stringValue(refs[j][rel.ForeignKey])]
		if c := compareValues(a, b); c != 0 {
			if d.Sort.Desc {
				return c > 0
			}
			return c < 0
		}
		return stringValue(refs[i]["id"]) < stringValue(refs[j]["id"])
	})

	start := d.Offset
	if start > len(refs) {
		start = len(refs)
	}
	end := len(refs)
	if d.Limit > 0 && start+d.Limit < end {
		end = start + d.Limit
	}
	page := refs[start:end]
	if len(page) == 0 {
		return []row{}, total, nil
	}

	ids := make([]string, 0, len(page))
	for _, r := range page {
		ids = append(ids, stringValue(r["id"]))
	}
	rows, err := s.fetchIn(ctx, res, "id", "*", ids, nil)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]row, len(rows))
	for _, r := range rows {
		byID[stringValue(r["id"])] = r
	}
	out := make([]row, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, total, nil
}

// attach loads includes for rows and stores them under the relation name.
func (s *Store) attach(ctx context.Context, res *resource.Resource, rows []row, includes []query.Include) error {
	if len(rows) == 0 {
		return nil
	}
	for _, inc := range includes {
		rel, ok := res.Relation(inc.Relation)
		if !ok {
			return fmt.Errorf("include %s: unknown relation %q", res.Label, inc.Relation)
		}
		target, ok := s.cat.Lookup(rel.Target)
		if !ok {
			return fmt.Errorf("include %s: unknown resource %q", res.Label, rel.Target)
		}

		switch rel.Kind {
		case resource.BelongsTo:
			parents, err := s.fetchIn(ctx, target, "id", "*", distinct(rows, rel.ForeignKey), nil)
			if err != nil {
				return err
			}
			if err := s.attach(ctx, target, parents, inc.Children); err != nil {
				return err
			}
			byID := make(map[string]row, len(parents))
			for _, p := range parents {
				byID[stringValue(p["id"])] = p
			}
			for _, r := range rows {
				if p, ok := byID[stringValue(r[rel.ForeignKey])]; ok {
					r[rel.Name] = p
				} else {
					r[rel.Name] = nil
				}
			}
		case resource.HasMany:
			children, err := s.fetchIn(ctx, target, rel.ForeignKey, "*", distinct(rows, "id"), rel.OrderBy)
			if err != nil {
				return err
			}
			if err := s.attach(ctx, target, children, inc.Children); err != nil {
				return err
			}
			grouped := make(map[string][]row, len(rows))
			for _, c := range children {
				fk := stringValue(c[rel.ForeignKey])
				grouped[fk] = append(grouped[fk], c)
			}
			for _, r := range rows {
				list := grouped[stringValue(r["id"])]
				if list == nil {
					list = []row{}
				}
				r[rel.Name] = list
			}
		}
	}
	return nil
}

// fetchIn loads rows whose column is one of values, chunked, preserving the
// requested order within each chunk and re-sorting across chunks.
func (s *Store) fetchIn(ctx context.Context, res *resource.Resource, column, sel string, values []string, orderBy []string) ([]row, error) {
	var out []row
	for start := 0; start < len(values); start += inChunk {
		end := start + inChunk
		if end > len(values) {
			end = len(values)
		}
		params := url.Values{
			"select": {sel},
			column:   {inList(values[start:end])},
		}
		if len(orderBy) > 0 {
			parts := make([]string, 0, len(orderBy))
			for _, col := range orderBy {
				parts = append(parts, col+".asc")
			}
			params.Set("order", strings.Join(parts, ","))
		}
		rows, _, err := s.fetchRange(ctx, "include", res, params, 0, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	if len(orderBy) > 0 && len(values) > inChunk {
		sort.SliceStable(out, func(i, j int) bool {
			for _, col := range orderBy {
				if c := compareValues(out[i][col], out[j][col]); c != 0 {
					return c < 0
				}
			}
			return false
		})
	}
	return out, nil
}

// decode turns column-keyed rows (with attached relations) into the
// resource's typed model via its JSON field names.
func (s *Store) decode(res *resource.Resource, src any, dst any) error {
	var shaped any
	switch v := src.(type) {
	case []row:
		list := make([]map[string]any, 0, len(v))
		for _, r := range v {
			list = append(list, s.shape(res, r))
		}
		shaped = list
	case row:
		shaped = s.shape(res, v)
	default:
		return fmt.Errorf("decode %s: unexpected source %T", res.Label, src)
	}
	raw, err := json.Marshal(shaped)
	if err != nil {
		return fmt.Errorf("decode %s: %w", res.Label, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", res.Label, err)
	}
	return nil
}

func (s *Store) shape(res *resource.Resource, r row) map[string]any {
	out := make(map[string]any, len(res.Fields)+len(res.Relations))
	for _, f := range res.Fields {
		if v, ok := r[f.Column]; ok {
			out[f.Name] = v
		}
	}
	for _, rel := range res.Relations {
		v, ok := r[rel.Name]
		if !ok {
			continue
		}
		target, ok := s.cat.Lookup(rel.Target)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case row:
			out[rel.Name] = s.shape(target, t)
		case []row:
			list := make([]map[string]any, 0, len(t))
			for _, c := range t {
				list = append(list, s.shape(target, c))
			}
			out[rel.Name] = list
		default:
			out[rel.Name] = nil
		}
	}
	return out
}

func distinct(rows []row, column string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		v := stringValue(r[column])
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// compareValues orders JSON scalars; nil sorts after every value, matching
// the store's default NULLS LAST for ascending order.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(stringValue(a), stringValue(b))
}
