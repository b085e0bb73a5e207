package resource

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/codewitheasy-admin/internal/data/query"
	"github.com/yungbote/codewitheasy-admin/internal/domain"
)

func TestDecodeCourseCreateNormalizes(t *testing.T) {
	courses := Default().MustLookup(Courses)

	out, err := courses.Decode(map[string]any{
		"title":    "Intro to Go",
		"level":    "beginner",
		"benefits": []any{"Concurrency", "Tooling"},
	}, OpCreate)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out["level"] != "BEGINNER" {
		t.Fatalf("level not upper-cased: %v", out["level"])
	}
	if out["slug"] != "intro-to-go" {
		t.Fatalf("slug not derived: %v", out["slug"])
	}
	if _, ok := out["benefits"].(datatypes.JSON); !ok {
		t.Fatalf("benefits not encoded as JSON: %T", out["benefits"])
	}
}

func TestDeriveSlugTransliterates(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"  --Hello,   World!!  ", "hello-world"},
		{"Ünïcode Título", "unicode-titulo"},
		{"Go 101", "go-101"},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			payload := map[string]any{"title": tc.title}
			DeriveSlug(OpCreate, payload)
			if payload["slug"] != tc.want {
				t.Fatalf("slug: got=%v want=%q", payload["slug"], tc.want)
			}
		})
	}

	payload := map[string]any{"title": "Ignored", "slug": " custom-slug "}
	DeriveSlug(OpCreate, payload)
	if payload["slug"] != "custom-slug" {
		t.Fatalf("explicit slug overwritten: %v", payload["slug"])
	}
}

func TestDecodeRejections(t *testing.T) {
	cat := Default()
	cases := []struct {
		name     string
		resource string
		op       Op
		body     map[string]any
	}{
		{"missing level", Courses, OpCreate, map[string]any{"title": "Go"}},
		{"bad level", Courses, OpCreate, map[string]any{"title": "Go", "level": "expert"}},
		{"unknown field", Courses, OpCreate, map[string]any{"title": "Go", "level": "BEGINNER", "price": 10}},
		{"read-only id", Courses, OpUpdate, map[string]any{"id": "x"}},
		{"blank title on update", Courses, OpUpdate, map[string]any{"title": "  "}},
		{"benefits not strings", Courses, OpCreate, map[string]any{"title": "Go", "level": "BEGINNER", "benefits": []any{1, 2}}},
		{"rating too high", LessonFeedback, OpCreate, map[string]any{"userId": "u", "lessonId": "l", "rating": float64(6)}},
		{"rating fractional", LessonFeedback, OpCreate, map[string]any{"userId": "u", "lessonId": "l", "rating": 2.5}},
		{"rating zero on update", LessonFeedback, OpUpdate, map[string]any{"rating": float64(0)}},
		{"progress above 100", Enrollments, OpUpdate, map[string]any{"progress": float64(101)}},
		{"bad timestamp", Enrollments, OpUpdate, map[string]any{"enrolledAt": "yesterday"}},
		{"null required string", Users, OpUpdate, map[string]any{"email": nil}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := cat.MustLookup(tc.resource).Decode(tc.body, tc.op)
			var ve *query.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestDecodeUpdateKeepsAbsentFields(t *testing.T) {
	feedback := Default().MustLookup(LessonFeedback)
	out, err := feedback.Decode(map[string]any{
		"difficulty": "hard",
		"comment":    nil,
	}, OpUpdate)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("unexpected payload: %v", out)
	}
	if out["difficulty"] != "HARD" {
		t.Fatalf("difficulty not upper-cased: %v", out["difficulty"])
	}
	if v, ok := out["comment"]; !ok || v != nil {
		t.Fatalf("explicit null comment should be kept: %v", out)
	}
}

func TestDecodeParsesTimes(t *testing.T) {
	enrollments := Default().MustLookup(Enrollments)
	out, err := enrollments.Decode(map[string]any{"enrolledAt": "2024-03-01T10:00:00+02:00"}, OpUpdate)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ts, ok := out["enrolled_at"].(time.Time)
	if !ok {
		t.Fatalf("expected time.Time, got %T", out["enrolled_at"])
	}
	if want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC); !ts.Equal(want) || ts.Location() != time.UTC {
		t.Fatalf("unexpected time: %s", ts)
	}
}

func TestQuerySpecMapsColumns(t *testing.T) {
	modules := Default().MustLookup(Modules)
	spec := modules.QuerySpec()
	if len(spec.SearchColumns) != 2 || spec.SearchColumns[0] != "title" || spec.SearchColumns[1] != "description" {
		t.Fatalf("unexpected search columns: %v", spec.SearchColumns)
	}
	if len(spec.Filters) != 1 || spec.Filters[0].Param != "courseId" || spec.Filters[0].Column != "course_id" {
		t.Fatalf("unexpected filters: %+v", spec.Filters)
	}
	if spec.SortFields["order"] != "sort_order" {
		t.Fatalf("order should sort by sort_order: %v", spec.SortFields)
	}
}

func TestCatalogDeclarationsAreConsistent(t *testing.T) {
	cat := Default()
	for _, r := range cat.All() {
		for _, name := range append(append(append([]string{}, r.Search...), r.Filters...), r.Required...) {
			if _, ok := r.Field(name); !ok {
				t.Fatalf("%s: declared field %q is not a field", r.Name, name)
			}
		}
		for _, rel := range r.Relations {
			if _, ok := cat.Lookup(rel.Target); !ok {
				t.Fatalf("%s: relation %q targets unknown resource %q", r.Name, rel.Name, rel.Target)
			}
		}
		for _, rs := range r.RelationSorts {
			rel, ok := r.Relation(rs.Relation)
			if !ok || rel.Kind != BelongsTo {
				t.Fatalf("%s: relation sort %q needs a belongs-to relation", r.Name, rs.Relation)
			}
			target := cat.MustLookup(rel.Target)
			if target.Column(rs.Field) != rs.Column {
				t.Fatalf("%s: relation sort %s.%s maps to %q", r.Name, rs.Relation, rs.Field, rs.Column)
			}
		}
		var walk func(owner *Resource, incs []query.Include)
		walk = func(owner *Resource, incs []query.Include) {
			for _, inc := range incs {
				rel, ok := owner.Relation(inc.Relation)
				if !ok {
					t.Fatalf("%s: include %q is not a relation", owner.Name, inc.Relation)
				}
				walk(cat.MustLookup(rel.Target), inc.Children)
			}
		}
		walk(r, r.Includes)

		switch r.New().(type) {
		case *domain.Course, *domain.Module, *domain.Lesson, *domain.User, *domain.Enrollment,
			*domain.Subscription, *domain.Certificate, *domain.LessonProgress, *domain.LessonFeedback:
		default:
			t.Fatalf("%s: unexpected model type %T", r.Name, r.New())
		}
	}
}
