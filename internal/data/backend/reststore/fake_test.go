package reststore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fakePostgrest is an in-memory stand-in for the subset of PostgREST the
// store speaks: eq/in filters, or=(col.ilike.*term*), order, offset/limit,
// exact counts (416 past the end), a db-max-rows cap and
// return=representation writes.
type fakePostgrest struct {
	mu       sync.Mutex
	tables   map[string][]map[string]any
	unique   map[string][][]string
	defaults map[string]map[string]any
	// beforeInsert runs under the lock ahead of the uniqueness check.
	beforeInsert func(table string, row map[string]any)
	failWith     map[string]int
	// maxRows caps every GET body like db-max-rows; 0 means no cap.
	maxRows  int
	requests []string
}

func newFakePostgrest() *fakePostgrest {
	return &fakePostgrest{
		tables: map[string][]map[string]any{},
		unique: map[string][][]string{
			"users":           {{"email"}},
			"courses":         {{"slug"}},
			"certificates":    {{"certificate_number"}},
			"lesson_feedback": {{"user_id", "lesson_id"}},
		},
		defaults: map[string]map[string]any{
			"courses":         {"is_published": false, "benefits": nil, "description": nil, "icon": nil},
			"modules":         {"sort_order": float64(0), "description": nil},
			"lessons":         {"sort_order": float64(0), "description": nil, "content": nil},
			"users":           {"first_name": nil, "last_name": nil, "clerk_id": nil, "image_url": nil},
			"lesson_feedback": {"is_helpful": false, "comment": nil, "difficulty": nil},
		},
		failWith: map[string]int{},
	}
}

func (f *fakePostgrest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	table := strings.TrimPrefix(r.URL.Path, "/")
	q := r.URL.Query()
	f.requests = append(f.requests, r.Method+" "+table+"?"+r.URL.RawQuery)

	if status, ok := f.failWith[table]; ok {
		writeJSON(w, status, map[string]any{"code": "XX000", "message": "store exploded"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		rows := f.match(table, q)
		total := len(rows)
		sortRows(rows, q.Get("order"))
		exact := strings.Contains(r.Header.Get("Prefer"), "count=exact")
		offset, _ := strconv.Atoi(q.Get("offset"))
		if exact && offset > 0 && offset >= total {
			w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
			writeJSON(w, http.StatusRequestedRangeNotSatisfiable, map[string]any{"code": "PGRST103", "message": "Requested range not satisfiable"})
			return
		}
		if offset > len(rows) {
			offset = len(rows)
		}
		rows = rows[offset:]
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit < len(rows) {
			rows = rows[:limit]
		}
		if f.maxRows > 0 && len(rows) > f.maxRows {
			rows = rows[:f.maxRows]
		}
		if exact {
			if len(rows) == 0 {
				w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
			} else {
				w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%d", offset, offset+len(rows)-1, total))
			}
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": err.Error()})
			return
		}
		row := map[string]any{}
		for k, v := range f.defaults[table] {
			row[k] = v
		}
		for k, v := range body {
			row[k] = v
		}
		if f.beforeInsert != nil {
			f.beforeInsert(table, row)
		}
		if f.violates(table, row, -1) {
			writeJSON(w, http.StatusConflict, map[string]any{"code": "23505", "message": "duplicate key value violates unique constraint"})
			return
		}
		f.tables[table] = append(f.tables[table], row)
		writeJSON(w, http.StatusCreated, []map[string]any{row})
	case http.MethodPatch:
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": err.Error()})
			return
		}
		var out []map[string]any
		for i, row := range f.tables[table] {
			if !rowMatches(row, q) {
				continue
			}
			next := map[string]any{}
			for k, v := range row {
				next[k] = v
			}
			for k, v := range body {
				next[k] = v
			}
			if f.violates(table, next, i) {
				writeJSON(w, http.StatusConflict, map[string]any{"code": "23505", "message": "duplicate key value violates unique constraint"})
				return
			}
			f.tables[table][i] = next
			out = append(out, next)
		}
		if out == nil {
			out = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodDelete:
		var kept, removed []map[string]any
		for _, row := range f.tables[table] {
			if rowMatches(row, q) {
				removed = append(removed, row)
			} else {
				kept = append(kept, row)
			}
		}
		f.tables[table] = kept
		if removed == nil {
			removed = []map[string]any{}
		}
		writeJSON(w, http.StatusOK, removed)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakePostgrest) match(table string, q url.Values) []map[string]any {
	out := []map[string]any{}
	for _, row := range f.tables[table] {
		if rowMatches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

func (f *fakePostgrest) violates(table string, row map[string]any, skip int) bool {
	for _, cols := range f.unique[table] {
		for i, other := range f.tables[table] {
			if i == skip {
				continue
			}
			same := true
			for _, c := range cols {
				if fakeFormat(other[c]) != fakeFormat(row[c]) {
					same = false
					break
				}
			}
			if same {
				return true
			}
		}
	}
	return false
}

func rowMatches(row map[string]any, q url.Values) bool {
	for key, vals := range q {
		switch key {
		case "select", "order", "offset", "limit":
			continue
		case "or":
			if !matchOr(row, vals[0]) {
				return false
			}
			continue
		}
		for _, v := range vals {
			switch {
			case strings.HasPrefix(v, "eq."):
				if fakeFormat(row[key]) != strings.TrimPrefix(v, "eq.") {
					return false
				}
			case strings.HasPrefix(v, "in.("):
				found := false
				for _, item := range splitTop(strings.TrimSuffix(strings.TrimPrefix(v, "in.("), ")")) {
					if fakeFormat(row[key]) == unquote(item) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
		}
	}
	return true
}

func matchOr(row map[string]any, expr string) bool {
	expr = strings.TrimSuffix(strings.TrimPrefix(expr, "("), ")")
	for _, part := range splitTop(expr) {
		col, pattern, ok := strings.Cut(part, ".ilike.")
		if !ok {
			continue
		}
		term := strings.Trim(unquote(pattern), "*")
		term = unescape(term)
		if row[col] == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fakeFormat(row[col])), strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func sortRows(rows []map[string]any, order string) {
	if order == "" {
		return
	}
	type key struct {
		col  string
		desc bool
	}
	var keys []key
	for _, part := range strings.Split(order, ",") {
		col, dir, _ := strings.Cut(part, ".")
		keys = append(keys, key{col: col, desc: dir == "desc"})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(rows[i][k.col], rows[j][k.col])
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// splitTop splits on commas outside double quotes.
func splitTop(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuote = !inQuote
		case r == ',' && !inQuote:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return unescape(s[1 : len(s)-1])
	}
	return s
}

func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func fakeFormat(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
