// Package backendtest holds the behavioural contract every backend.Backend
// implementation must satisfy. Adapter packages run it from their own tests.
package backendtest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend"
	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/domain"
)

type Harness struct {
	Backend backend.Backend
	Catalog *resource.Catalog
}

// Run executes the contract; newHarness must return an empty store per call.
func Run(t *testing.T, newHarness func(t *testing.T) Harness) {
	t.Run("CreateNormalizesAndIncludes", func(t *testing.T) { testCreate(t, newHarness(t)) })
	t.Run("ListPageAndTotal", func(t *testing.T) { testListPage(t, newHarness(t)) })
	t.Run("SearchMatchesDeclaredFields", func(t *testing.T) { testSearch(t, newHarness(t)) })
	t.Run("RelationSortWithFilter", func(t *testing.T) { testRelationSort(t, newHarness(t)) })
	t.Run("NestedIncludesOrdered", func(t *testing.T) { testNestedIncludes(t, newHarness(t)) })
	t.Run("PartialUpdate", func(t *testing.T) { testUpdate(t, newHarness(t)) })
	t.Run("DeleteMissingIsNotFound", func(t *testing.T) { testDelete(t, newHarness(t)) })
	t.Run("DeleteWithChildrenIsConflict", func(t *testing.T) { testDeleteRestrict(t, newHarness(t)) })
	t.Run("UniqueViolationIsConflict", func(t *testing.T) { testConflict(t, newHarness(t)) })
	t.Run("UpsertKeepsOneRow", func(t *testing.T) { testUpsert(t, newHarness(t)) })
}

func create(t *testing.T, h Harness, name string, body map[string]any) any {
	t.Helper()
	res := h.Catalog.MustLookup(name)
	payload, err := res.Decode(body, resource.OpCreate)
	if err != nil {
		t.Fatalf("decode %s: %v", name, err)
	}
	item, err := h.Backend.Create(context.Background(), res, payload)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return item
}

func list(t *testing.T, h Harness, name string, params url.Values) (any, int64) {
	t.Helper()
	res := h.Catalog.MustLookup(name)
	d, err := query.Build(params, res.QuerySpec())
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	items, total, err := h.Backend.List(context.Background(), res, d)
	if err != nil {
		t.Fatalf("list %s: %v", name, err)
	}
	return items, total
}

func testCreate(t *testing.T, h Harness) {
	item := create(t, h, resource.Courses, map[string]any{
		"title":    "Intro",
		"level":    "beginner",
		"benefits": []any{"Fast start"},
	})
	c, ok := item.(*domain.Course)
	if !ok {
		t.Fatalf("unexpected type %T", item)
	}
	if c.ID == "" || c.Level != "BEGINNER" || c.Slug != "intro" {
		t.Fatalf("unexpected course: %+v", c)
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", c)
	}
	if !strings.Contains(string(c.Benefits), "Fast start") {
		t.Fatalf("benefits not stored: %s", c.Benefits)
	}
	if len(c.Modules) != 0 {
		t.Fatalf("new course should have no modules: %+v", c.Modules)
	}

	got, err := h.Backend.GetByID(context.Background(), h.Catalog.MustLookup(resource.Courses), c.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.(*domain.Course).Title != "Intro" {
		t.Fatalf("unexpected get result: %+v", got)
	}
}

func testListPage(t *testing.T, h Harness) {
	for i := 0; i < 5; i++ {
		create(t, h, resource.Users, map[string]any{"email": fmt.Sprintf("user%d@example.com", i)})
	}
	items, total := list(t, h, resource.Users, url.Values{
		"offset": {"1"}, "limit": {"2"}, "sortBy": {"email"},
	})
	users := *items.(*[]domain.User)
	if total != 5 {
		t.Fatalf("total: got=%d want=5", total)
	}
	if len(users) != 2 || users[0].Email != "user1@example.com" || users[1].Email != "user2@example.com" {
		t.Fatalf("unexpected page: %+v", users)
	}

	for _, offset := range []string{"5", "10"} {
		items, total = list(t, h, resource.Users, url.Values{"offset": {offset}})
		if total != 5 || len(*items.(*[]domain.User)) != 0 {
			t.Fatalf("offset %s past end: total=%d items=%d", offset, total, len(*items.(*[]domain.User)))
		}
	}
}

func testSearch(t *testing.T, h Harness) {
	create(t, h, resource.Users, map[string]any{"email": "alice@example.com", "firstName": "Alice"})
	create(t, h, resource.Users, map[string]any{"email": "bob@example.com", "lastName": "Malice"})
	create(t, h, resource.Users, map[string]any{"email": "carol@example.com", "firstName": "Carol"})
	create(t, h, resource.Users, map[string]any{"email": "dave_50%@example.com"})

	items, total := list(t, h, resource.Users, url.Values{"search": {"ALIC"}})
	users := *items.(*[]domain.User)
	if total != 2 || len(users) != 2 {
		t.Fatalf("search: total=%d items=%+v", total, users)
	}
	for _, u := range users {
		fields := []string{u.Email, deref(u.FirstName), deref(u.LastName), deref(u.ClerkID)}
		if !anyContainsFold(fields, "alic") {
			t.Fatalf("record does not match search: %+v", u)
		}
	}

	items, total = list(t, h, resource.Users, url.Values{"search": {"_50%"}})
	users = *items.(*[]domain.User)
	if total != 1 || users[0].Email != "dave_50%@example.com" {
		t.Fatalf("wildcards must match literally: total=%d items=%+v", total, users)
	}
}

func testRelationSort(t *testing.T, h Harness) {
	alpha := create(t, h, resource.Courses, map[string]any{"title": "Alpha", "level": "BEGINNER"}).(*domain.Course)
	beta := create(t, h, resource.Courses, map[string]any{"title": "Beta", "level": "ADVANCED"}).(*domain.Course)
	for i := 0; i < 3; i++ {
		create(t, h, resource.Modules, map[string]any{"title": fmt.Sprintf("A%d", i), "courseId": alpha.ID, "order": float64(i)})
		create(t, h, resource.Modules, map[string]any{"title": fmt.Sprintf("B%d", i), "courseId": beta.ID, "order": float64(i)})
	}

	items, total := list(t, h, resource.Modules, url.Values{"sortBy": {"course.title"}, "sortOrder": {"desc"}, "limit": {"100"}})
	mods := *items.(*[]domain.Module)
	if total != 6 || len(mods) != 6 {
		t.Fatalf("unexpected count: total=%d items=%d", total, len(mods))
	}
	for i := 1; i < len(mods); i++ {
		prev, cur := mods[i-1], mods[i]
		if prev.Course == nil || cur.Course == nil {
			t.Fatalf("course include missing")
		}
		if prev.Course.Title < cur.Course.Title {
			t.Fatalf("not non-increasing at %d: %q then %q", i, prev.Course.Title, cur.Course.Title)
		}
		if prev.Course.Title == cur.Course.Title && prev.ID > cur.ID {
			t.Fatalf("ties must be ordered by id: %s then %s", prev.ID, cur.ID)
		}
	}
	if mods[0].CourseID != beta.ID {
		t.Fatalf("desc sort should start with Beta modules")
	}

	items, total = list(t, h, resource.Modules, url.Values{
		"courseId": {alpha.ID}, "sortBy": {"course.title"}, "sortOrder": {"desc"}, "limit": {"2"},
	})
	mods = *items.(*[]domain.Module)
	if total != 3 || len(mods) != 2 {
		t.Fatalf("filtered relation sort: total=%d items=%d", total, len(mods))
	}
	for _, m := range mods {
		if m.CourseID != alpha.ID {
			t.Fatalf("module from another course: %+v", m)
		}
	}
	if mods[0].ID > mods[1].ID {
		t.Fatalf("identical sort values must fall back to id order")
	}
}

func testNestedIncludes(t *testing.T, h Harness) {
	course := create(t, h, resource.Courses, map[string]any{"title": "Tree", "level": "INTERMEDIATE"}).(*domain.Course)
	second := create(t, h, resource.Modules, map[string]any{"title": "Second", "courseId": course.ID, "order": float64(2)}).(*domain.Module)
	first := create(t, h, resource.Modules, map[string]any{"title": "First", "courseId": course.ID, "order": float64(1)}).(*domain.Module)
	create(t, h, resource.Lessons, map[string]any{"title": "L2", "moduleId": first.ID, "order": float64(2)})
	create(t, h, resource.Lessons, map[string]any{"title": "L1", "moduleId": first.ID, "order": float64(1)})
	create(t, h, resource.Lessons, map[string]any{"title": "Other", "moduleId": second.ID})

	courses := h.Catalog.MustLookup(resource.Courses)
	item, err := h.Backend.GetByID(context.Background(), courses, course.ID, courses.Includes)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := item.(*domain.Course)
	if len(got.Modules) != 2 || got.Modules[0].Title != "First" || got.Modules[1].Title != "Second" {
		t.Fatalf("modules not ordered: %+v", got.Modules)
	}
	lessons := got.Modules[0].Lessons
	if len(lessons) != 2 || lessons[0].Title != "L1" || lessons[1].Title != "L2" {
		t.Fatalf("lessons not ordered: %+v", lessons)
	}
	if len(got.Modules[1].Lessons) != 1 {
		t.Fatalf("second module lessons: %+v", got.Modules[1].Lessons)
	}
	if lessons[0].Slug != "l1" {
		t.Fatalf("lesson slug not derived: %q", lessons[0].Slug)
	}
}

func testUpdate(t *testing.T, h Harness) {
	res := h.Catalog.MustLookup(resource.Courses)
	c := create(t, h, resource.Courses, map[string]any{"title": "Old", "level": "BEGINNER", "description": "keep me"}).(*domain.Course)

	patch, err := res.Decode(map[string]any{"title": "New", "level": "advanced"}, resource.OpUpdate)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	item, err := h.Backend.Update(context.Background(), res, c.ID, patch)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got := item.(*domain.Course)
	if got.Title != "New" || got.Level != "ADVANCED" {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Description == nil || *got.Description != "keep me" || got.Slug != "old" {
		t.Fatalf("absent fields changed: %+v", got)
	}
	if got.ID != c.ID || !got.CreatedAt.Equal(c.CreatedAt) || got.UpdatedAt.Before(c.UpdatedAt) {
		t.Fatalf("identity or timestamps wrong: before=%+v after=%+v", c, got)
	}

	_, err = h.Backend.Update(context.Background(), res, "00000000-0000-0000-0000-000000000000", patch)
	if !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("update missing: got %v", err)
	}
}

func testDelete(t *testing.T, h Harness) {
	res := h.Catalog.MustLookup(resource.Users)
	u := create(t, h, resource.Users, map[string]any{"email": "gone@example.com"}).(*domain.User)

	if err := h.Backend.Delete(context.Background(), res, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := h.Backend.GetByID(context.Background(), res, u.ID, nil); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("get after delete: got %v", err)
	}
	if err := h.Backend.Delete(context.Background(), res, u.ID); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func testDeleteRestrict(t *testing.T, h Harness) {
	ctx := context.Background()
	courses := h.Catalog.MustLookup(resource.Courses)
	modules := h.Catalog.MustLookup(resource.Modules)
	c := create(t, h, resource.Courses, map[string]any{"title": "Parent", "level": "BEGINNER"}).(*domain.Course)
	m := create(t, h, resource.Modules, map[string]any{"title": "Child", "courseId": c.ID}).(*domain.Module)
	create(t, h, resource.Lessons, map[string]any{"title": "Grandchild", "moduleId": m.ID})

	if err := h.Backend.Delete(ctx, courses, c.ID); !errors.Is(err, backend.ErrConflict) {
		t.Fatalf("delete course with modules: got %v", err)
	}
	if err := h.Backend.Delete(ctx, modules, m.ID); !errors.Is(err, backend.ErrConflict) {
		t.Fatalf("delete module with lessons: got %v", err)
	}
	if _, err := h.Backend.GetByID(ctx, modules, m.ID, nil); err != nil {
		t.Fatalf("module should survive a refused delete: %v", err)
	}

	items, _ := list(t, h, resource.Lessons, url.Values{"moduleId": {m.ID}})
	for _, l := range *items.(*[]domain.Lesson) {
		if err := h.Backend.Delete(ctx, h.Catalog.MustLookup(resource.Lessons), l.ID); err != nil {
			t.Fatalf("delete lesson: %v", err)
		}
	}
	if err := h.Backend.Delete(ctx, modules, m.ID); err != nil {
		t.Fatalf("delete empty module: %v", err)
	}
	if err := h.Backend.Delete(ctx, courses, c.ID); err != nil {
		t.Fatalf("delete empty course: %v", err)
	}
}

func testConflict(t *testing.T, h Harness) {
	res := h.Catalog.MustLookup(resource.Users)
	create(t, h, resource.Users, map[string]any{"email": "dup@example.com"})
	payload, _ := res.Decode(map[string]any{"email": "dup@example.com"}, resource.OpCreate)
	if _, err := h.Backend.Create(context.Background(), res, payload); !errors.Is(err, backend.ErrConflict) {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func testUpsert(t *testing.T, h Harness) {
	ctx := context.Background()
	res := h.Catalog.MustLookup(resource.LessonFeedback)
	u := create(t, h, resource.Users, map[string]any{"email": "rater@example.com"}).(*domain.User)
	c := create(t, h, resource.Courses, map[string]any{"title": "C", "level": "BEGINNER"}).(*domain.Course)
	m := create(t, h, resource.Modules, map[string]any{"title": "M", "courseId": c.ID}).(*domain.Module)
	l := create(t, h, resource.Lessons, map[string]any{"title": "L", "moduleId": m.ID}).(*domain.Lesson)

	key := map[string]any{"user_id": u.ID, "lesson_id": l.ID}
	first, created, err := h.Backend.UpsertByKey(ctx, res, key, map[string]any{"rating": 3, "comment": "ok"})
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	second, created, err := h.Backend.UpsertByKey(ctx, res, key, map[string]any{"rating": 5, "difficulty": "HARD"})
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}
	a, b := first.(*domain.LessonFeedback), second.(*domain.LessonFeedback)
	if a.ID != b.ID || b.Rating != 5 || b.Difficulty == nil || *b.Difficulty != "HARD" {
		t.Fatalf("unexpected upsert result: first=%+v second=%+v", a, b)
	}
	if b.Comment == nil || *b.Comment != "ok" {
		t.Fatalf("absent column should be preserved: %+v", b)
	}
	if !b.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("created_at changed: %s -> %s", a.CreatedAt, b.CreatedAt)
	}
	if b.User == nil || b.Lesson == nil {
		t.Fatalf("includes missing on upsert result: %+v", b)
	}

	items, total := list(t, h, resource.LessonFeedback, url.Values{"lessonId": {l.ID}})
	rows := *items.(*[]domain.LessonFeedback)
	if total != 1 || len(rows) != 1 || rows[0].Rating != 5 {
		t.Fatalf("expected exactly one row with rating 5: total=%d rows=%+v", total, rows)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func anyContainsFold(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), strings.ToLower(term)) {
			return true
		}
	}
	return false
}
