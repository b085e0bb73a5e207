package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/codewitheasy-admin/internal/data/testutil"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
)

func TestCreateCourseNormalizes(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/courses", map[string]any{
		"title":    "Go Basics",
		"level":    "beginner",
		"benefits": []string{"Write Go", "Ship services"},
	})
	expectStatus(t, rec, http.StatusCreated)
	d := data(body)
	if d["level"] != "BEGINNER" || d["slug"] != "go-basics" {
		t.Fatalf("not normalized: %v", d)
	}
	if benefits, _ := d["benefits"].([]any); len(benefits) != 2 {
		t.Fatalf("benefits: got=%v", d["benefits"])
	}
	if d["id"] == "" || d["createdAt"] == nil {
		t.Fatalf("missing generated fields: %v", d)
	}

	rec, _ = env.do(t, http.MethodPost, "/api/courses", map[string]any{"title": "Go Basics", "level": "BEGINNER"})
	expectStatus(t, rec, http.StatusConflict)
}

func TestCreateRejectsBadBodies(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body any
	}{
		{"unknown field", "/api/courses", map[string]any{"title": "x", "level": "BEGINNER", "bogus": 1}},
		{"read-only field", "/api/courses", map[string]any{"title": "x", "level": "BEGINNER", "id": "mine"}},
		{"bad enum", "/api/courses", map[string]any{"title": "x", "level": "expert"}},
		{"missing required", "/api/courses", map[string]any{"level": "BEGINNER"}},
		{"benefits not strings", "/api/courses", map[string]any{"title": "x", "level": "BEGINNER", "benefits": []int{1}}},
		{"not an object", "/api/courses", `[1,2]`},
		{"malformed json", "/api/courses", `{"title":`},
		{"missing parent", "/api/modules", map[string]any{"title": "m", "courseId": "no-such-course"}},
		{"rating out of range", "/api/lesson-feedback", map[string]any{"userId": "u", "lessonId": "l", "rating": 9}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := env.do(t, http.MethodPost, tc.path, tc.body)
			expectStatus(t, rec, http.StatusBadRequest)
			if errorCode(body) != apierr.CodeValidation {
				t.Fatalf("code: got=%q body=%v", errorCode(body), body)
			}
		})
	}
}

func TestGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	c := testutil.SeedCourse(t, ctx, env.db, "Go Basics")
	m := testutil.SeedModule(t, ctx, env.db, c.ID, "Intro", 1)
	l := testutil.SeedLesson(t, ctx, env.db, m.ID, "Hello", 1)

	rec, body := env.do(t, http.MethodGet, "/api/courses/"+c.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	modules, _ := data(body)["modules"].([]any)
	if len(modules) != 1 {
		t.Fatalf("modules not included: %v", data(body))
	}
	if lessons, _ := modules[0].(map[string]any)["lessons"].([]any); len(lessons) != 1 {
		t.Fatalf("nested lessons not included: %v", modules[0])
	}

	rec, body = env.do(t, http.MethodPut, "/api/courses/"+c.ID, map[string]any{"title": "Go Fundamentals", "isPublished": true})
	expectStatus(t, rec, http.StatusOK)
	d := data(body)
	if d["title"] != "Go Fundamentals" || d["isPublished"] != true || d["slug"] != c.Slug {
		t.Fatalf("partial update wrong: %v", d)
	}

	rec, body = env.do(t, http.MethodPut, "/api/courses/missing", map[string]any{"title": "x"})
	expectStatus(t, rec, http.StatusNotFound)
	if errorMessage(body) != "Course not found" {
		t.Fatalf("message: got=%q", errorMessage(body))
	}

	rec, _ = env.do(t, http.MethodPut, "/api/modules/"+m.ID, map[string]any{"courseId": "gone"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec, body = env.do(t, http.MethodDelete, "/api/lessons/missing", nil)
	expectStatus(t, rec, http.StatusNotFound)
	if errorMessage(body) != "Lesson not found" {
		t.Fatalf("message: got=%q", errorMessage(body))
	}

	rec, body = env.do(t, http.MethodDelete, "/api/modules/"+m.ID, nil)
	expectStatus(t, rec, http.StatusConflict)
	if errorCode(body) != apierr.CodeConflict {
		t.Fatalf("code: got=%q body=%v", errorCode(body), body)
	}
	rec, _ = env.do(t, http.MethodDelete, "/api/courses/"+c.ID, nil)
	expectStatus(t, rec, http.StatusConflict)

	rec, _ = env.do(t, http.MethodDelete, "/api/lessons/"+l.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	rec, body = env.do(t, http.MethodDelete, "/api/modules/"+m.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	if body["success"] != true {
		t.Fatalf("delete body: %v", body)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/modules/"+m.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCreateKeyedResourceUpserts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := testutil.SeedUser(t, ctx, env.db, "keyed@example.com", "Kay")
	c := testutil.SeedCourse(t, ctx, env.db, "Keyed")
	m := testutil.SeedModule(t, ctx, env.db, c.ID, "M", 0)
	l := testutil.SeedLesson(t, ctx, env.db, m.ID, "L", 0)

	body := map[string]any{"userId": u.ID, "lessonId": l.ID, "rating": 2, "comment": "meh"}
	rec, first := env.do(t, http.MethodPost, "/api/lesson-feedback", body)
	expectStatus(t, rec, http.StatusCreated)

	body["rating"] = 5
	delete(body, "comment")
	rec, second := env.do(t, http.MethodPost, "/api/lesson-feedback", body)
	expectStatus(t, rec, http.StatusOK)
	a, b := data(first), data(second)
	if a["id"] != b["id"] || b["rating"] != float64(5) || b["comment"] != "meh" {
		t.Fatalf("second post should update in place: first=%v second=%v", a, b)
	}

	var n int64
	if err := env.db.Table("lesson_feedback").Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows: got=%d want=1", n)
	}
}

func TestListModulesFilteredAndSortedByCourse(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alpha := testutil.SeedCourse(t, ctx, env.db, "Alpha")
	beta := testutil.SeedCourse(t, ctx, env.db, "Beta")
	for i, title := range []string{"a1", "a2", "a3"} {
		testutil.SeedModule(t, ctx, env.db, alpha.ID, title, i)
	}
	testutil.SeedModule(t, ctx, env.db, beta.ID, "b1", 0)

	rec, body := env.do(t, http.MethodGet, "/api/modules?courseId="+alpha.ID+"&sortBy=course.title&sortOrder=desc&limit=2", nil)
	expectStatus(t, rec, http.StatusOK)
	if total, _ := body["total"].(float64); total != 3 {
		t.Fatalf("total: got=%v", body["total"])
	}
	items, _ := body["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("page size: got=%d", len(items))
	}
	for _, it := range items {
		m := it.(map[string]any)
		course, _ := m["course"].(map[string]any)
		if m["courseId"] != alpha.ID || course["title"] != "Alpha" {
			t.Fatalf("unexpected row: %v", m)
		}
	}

	rec, body = env.do(t, http.MethodGet, "/api/modules?sortBy=course.title&sortOrder=desc", nil)
	expectStatus(t, rec, http.StatusOK)
	items, _ = body["data"].([]any)
	first := items[0].(map[string]any)["course"].(map[string]any)
	if first["title"] != "Beta" {
		t.Fatalf("desc sort by course title: first=%v", first)
	}
}

func TestListRejectsMalformedQuery(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"limit=0", "limit=abc", "offset=-1", "sortBy=nope", "sortOrder=sideways", "sortBy=user.email"} {
		t.Run(q, func(t *testing.T) {
			rec, body := env.do(t, http.MethodGet, "/api/courses?"+q, nil)
			expectStatus(t, rec, http.StatusBadRequest)
			if errorCode(body) != apierr.CodeValidation {
				t.Fatalf("code: got=%q", errorCode(body))
			}
		})
	}
}

func TestListSearchUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	testutil.SeedUser(t, ctx, env.db, "alice@example.com", "Alice")
	testutil.SeedUser(t, ctx, env.db, "bob@example.com", "Bob")

	rec, body := env.do(t, http.MethodGet, "/api/users?search=ALI", nil)
	expectStatus(t, rec, http.StatusOK)
	items, _ := body["data"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["email"] != "alice@example.com" {
		t.Fatalf("search result: %v", items)
	}
}
