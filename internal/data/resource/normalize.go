package resource

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
)

// Decode validates a JSON-keyed request body and returns the column-keyed
// payload the backends write. Fields absent from body stay absent.
func (r *Resource) Decode(body map[string]any, op Op) (map[string]any, error) {
	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(body))
	for _, name := range names {
		f, ok := r.Field(name)
		if !ok {
			return nil, query.Invalid(name, "unknown field")
		}
		if f.ReadOnly {
			return nil, query.Invalid(name, "field is read-only")
		}
		val, err := coerce(f, body[name])
		if err != nil {
			return nil, err
		}
		out[f.Column] = val
	}

	for _, hook := range r.Hooks {
		hook(op, out)
	}

	for _, name := range r.Required {
		col := r.Column(name)
		v, present := out[col]
		if op == OpUpdate && !present {
			continue
		}
		if !present || isBlank(v) {
			return nil, query.Invalid(name, "is required")
		}
	}

	for _, validate := range r.Validators {
		if err := validate(op, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

func coerce(f Field, raw any) (any, error) {
	if raw == nil {
		if f.Nullable {
			return nil, nil
		}
		return nil, query.Invalid(f.Name, "must not be null")
	}
	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, query.Invalid(f.Name, "must be a string")
		}
		return s, nil
	case Enum:
		s, ok := raw.(string)
		if !ok {
			return nil, query.Invalid(f.Name, "must be a string")
		}
		s = strings.ToUpper(strings.TrimSpace(s))
		for _, allowed := range f.Enum {
			if s == allowed {
				return s, nil
			}
		}
		return nil, query.Invalid(f.Name, "must be one of %s", strings.Join(f.Enum, ", "))
	case Int:
		switch n := raw.(type) {
		case float64:
			if n != math.Trunc(n) || math.IsInf(n, 0) {
				return nil, query.Invalid(f.Name, "must be an integer")
			}
			return int(n), nil
		case int:
			return n, nil
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, query.Invalid(f.Name, "must be an integer")
			}
			return int(i), nil
		default:
			return nil, query.Invalid(f.Name, "must be an integer")
		}
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, query.Invalid(f.Name, "must be a boolean")
		}
		return b, nil
	case Time:
		s, ok := raw.(string)
		if !ok {
			return nil, query.Invalid(f.Name, "must be an RFC 3339 timestamp")
		}
		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
		if err != nil {
			return nil, query.Invalid(f.Name, "must be an RFC 3339 timestamp")
		}
		return ts.UTC(), nil
	case JSON:
		b, err := json.Marshal(raw)
		if err != nil {
			return nil, query.Invalid(f.Name, "must be valid JSON")
		}
		return datatypes.JSON(b), nil
	default:
		return raw, nil
	}
}

// DeriveSlug fills an absent or blank slug from the title on create.
func DeriveSlug(op Op, payload map[string]any) {
	if op != OpCreate {
		return
	}
	if s, ok := payload["slug"].(string); ok && strings.TrimSpace(s) != "" {
		payload["slug"] = strings.TrimSpace(s)
		return
	}
	if title, ok := payload["title"].(string); ok {
		payload["slug"] = slug.Make(title)
	}
}

// IntRange rejects a present integer column outside [min, max].
func IntRange(name, column string, min, max int) Validator {
	return func(_ Op, payload map[string]any) error {
		v, ok := payload[column]
		if !ok {
			return nil
		}
		n, ok := v.(int)
		if !ok || n < min || n > max {
			return query.Invalid(name, "must be between %d and %d", min, max)
		}
		return nil
	}
}

// StringArray rejects a present JSON column that is not an array of strings.
func StringArray(name, column string) Validator {
	return func(_ Op, payload map[string]any) error {
		v, ok := payload[column]
		if !ok || v == nil {
			return nil
		}
		raw, ok := v.(datatypes.JSON)
		if !ok {
			return query.Invalid(name, "must be an array of strings")
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return query.Invalid(name, "must be an array of strings")
		}
		return nil
	}
}
