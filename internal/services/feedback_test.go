package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/codewitheasy-admin/internal/data/backend/gormstore"
	"github.com/yungbote/codewitheasy-admin/internal/data/resource"
	"github.com/yungbote/codewitheasy-admin/internal/data/testutil"
	"github.com/yungbote/codewitheasy-admin/internal/domain"
	"github.com/yungbote/codewitheasy-admin/internal/pkg/pointers"
	"github.com/yungbote/codewitheasy-admin/internal/platform/apierr"
)

type feedbackFixture struct {
	db     *gorm.DB
	svc    FeedbackService
	user   *domain.User
	lesson *domain.Lesson
}

func newFeedbackFixture(t *testing.T) feedbackFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cat := resource.Default()

	u := testutil.SeedUser(t, ctx, db, "learner@example.com", "Lea")
	c := testutil.SeedCourse(t, ctx, db, "Go Basics")
	m := testutil.SeedModule(t, ctx, db, c.ID, "Intro", 1)
	l := testutil.SeedLesson(t, ctx, db, m.ID, "Hello, World", 1)

	return feedbackFixture{
		db:     db,
		svc:    NewFeedbackService(log, gormstore.New(db, cat, log), cat),
		user:   u,
		lesson: l,
	}
}

func (f feedbackFixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&domain.LessonFeedback{}).Count(&n).Error; err != nil {
		t.Fatalf("count feedback: %v", err)
	}
	return n
}

func TestSubmitTwiceKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)

	first, created, err := f.svc.Submit(ctx, f.lesson.ID, FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(3)})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !created {
		t.Fatalf("first submit should create")
	}
	if first.User == nil || first.User.ID != f.user.ID {
		t.Fatalf("user should be included: %+v", first.User)
	}

	second, created, err := f.svc.Submit(ctx, f.lesson.ID, FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(5)})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if created {
		t.Fatalf("second submit should update")
	}
	if second.ID != first.ID || second.Rating != 5 {
		t.Fatalf("unexpected second row: id=%s rating=%d (first id=%s)", second.ID, second.Rating, first.ID)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("updatedAt went backwards: %s < %s", second.UpdatedAt, first.UpdatedAt)
	}
	if n := f.count(t); n != 1 {
		t.Fatalf("rows: got=%d want=1", n)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)

	tests := []struct {
		name string
		in   FeedbackInput
	}{
		{"rating too high", FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(6)}},
		{"rating too low", FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(0)}},
		{"missing rating", FeedbackInput{UserID: f.user.ID}},
		{"missing user", FeedbackInput{Rating: pointers.Int(3)}},
		{"bad difficulty", FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(3), Difficulty: pointers.String("brutal")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.svc.Submit(ctx, f.lesson.ID, tc.in)
			ae, ok := apierr.As(err)
			if !ok || ae.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
	if n := f.count(t); n != 0 {
		t.Fatalf("rejected input reached storage: rows=%d", n)
	}
}

func TestSubmitInvalidRatingKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)
	seeded := testutil.SeedFeedback(t, ctx, f.db, f.user.ID, f.lesson.ID, 4, true, pointers.String("EASY"))
	reload := func() domain.LessonFeedback {
		t.Helper()
		var fb domain.LessonFeedback
		if err := f.db.Where("id = ?", seeded.ID).Take(&fb).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		return fb
	}
	before := reload()

	for _, rating := range []int{6, 0, -1} {
		_, _, err := f.svc.Submit(ctx, f.lesson.ID, FeedbackInput{UserID: f.user.ID, Rating: pointers.Int(rating), Comment: pointers.String("changed")})
		if ae, ok := apierr.As(err); !ok || ae.Status != http.StatusBadRequest {
			t.Fatalf("rating %d: expected 400, got %v", rating, err)
		}
	}

	got := reload()
	if got.Rating != 4 || got.Comment != nil || !got.IsHelpful {
		t.Fatalf("row modified: %+v", got)
	}
	if !got.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updatedAt changed: %s -> %s", before.UpdatedAt, got.UpdatedAt)
	}
	if n := f.count(t); n != 1 {
		t.Fatalf("rows: got=%d want=1", n)
	}
}

func TestSubmitLeavesAbsentFieldsUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)

	decode := func(body string) FeedbackInput {
		t.Helper()
		var in FeedbackInput
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		return in
	}

	first, _, err := f.svc.Submit(ctx, f.lesson.ID, decode(`{"userId":"`+f.user.ID+`","rating":4,"comment":"great","isHelpful":true,"difficulty":"easy"}`))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Difficulty == nil || *first.Difficulty != "EASY" {
		t.Fatalf("difficulty not normalized: %v", first.Difficulty)
	}

	second, _, err := f.svc.Submit(ctx, f.lesson.ID, decode(`{"userId":"`+f.user.ID+`","rating":2}`))
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Rating != 2 || second.Comment == nil || *second.Comment != "great" || !second.IsHelpful {
		t.Fatalf("absent fields changed: %+v", second)
	}

	third, _, err := f.svc.Submit(ctx, f.lesson.ID, decode(`{"userId":"`+f.user.ID+`","rating":2,"comment":null,"difficulty":null}`))
	if err != nil {
		t.Fatalf("third submit: %v", err)
	}
	if third.Comment != nil || third.Difficulty != nil {
		t.Fatalf("explicit nulls not applied: comment=%v difficulty=%v", third.Comment, third.Difficulty)
	}
}

func TestListForLessonAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)

	other := testutil.SeedUser(t, ctx, f.db, "other@example.com", "Otto")
	older := testutil.SeedFeedback(t, ctx, f.db, f.user.ID, f.lesson.ID, 2, false, pointers.String("HARD"))
	newer := testutil.SeedFeedback(t, ctx, f.db, other.ID, f.lesson.ID, 5, true, nil)
	if err := f.db.Model(older).Update("created_at", time.Now().UTC().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("age row: %v", err)
	}

	rows, err := f.svc.ListForLesson(ctx, f.lesson.ID)
	if err != nil {
		t.Fatalf("ListForLesson: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != newer.ID || rows[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", rows)
	}
	if rows[0].User == nil || rows[0].Lesson == nil {
		t.Fatalf("user and lesson should be included")
	}

	st, err := f.svc.LessonStats(ctx, f.lesson.ID)
	if err != nil {
		t.Fatalf("LessonStats: %v", err)
	}
	if st.TotalFeedback != 2 || st.AverageRating != 3.5 || st.HelpfulCount != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.DifficultyDistribution["HARD"] != 1 || st.DifficultyDistribution[UnknownDifficulty] != 1 {
		t.Fatalf("unexpected distribution: %v", st.DifficultyDistribution)
	}

	empty, err := f.svc.LessonStats(ctx, "no-such-lesson")
	if err != nil {
		t.Fatalf("LessonStats empty: %v", err)
	}
	if empty.TotalFeedback != 0 || empty.AverageRating != 0 {
		t.Fatalf("unexpected empty stats: %+v", empty)
	}

	global, err := f.svc.GlobalStats(ctx)
	if err != nil {
		t.Fatalf("GlobalStats: %v", err)
	}
	if global.TotalFeedback != 2 {
		t.Fatalf("global total: got=%d", global.TotalFeedback)
	}
}
