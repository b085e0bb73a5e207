package reststore

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
)

func applyConditions(params url.Values, d query.Descriptor) {
	for _, f := range d.Filters {
		params.Add(f.Column, "eq."+formatValue(f.Value))
	}
	if d.Search == "" || len(d.SearchColumns) == 0 {
		return
	}
	pattern := quote("*" + escapeLike(d.Search) + "*")
	parts := make([]string, 0, len(d.SearchColumns))
	for _, col := range d.SearchColumns {
		parts = append(parts, col+".ilike."+pattern)
	}
	params.Set("or", "("+strings.Join(parts, ",")+")")
}

func orderParam(col string, desc bool) string {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	if col == "id" {
		return "id." + dir
	}
	return col + "." + dir + ",id.asc"
}

func inList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quote(v))
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// quote wraps a filter value so reserved characters (,.:()) survive.
func quote(v string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatValue(v)
}
