package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/yungbote/codewitheasy-admin/internal/domain"
	"github.com/yungbote/codewitheasy-admin/internal/domain/learning"
	"github.com/yungbote/codewitheasy-admin/internal/pkg/pointers"
)

func stamp() time.Time { return time.Now().UTC() }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, firstName string) *domain.User {
	tb.Helper()
	now := stamp()
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: pointers.String(firstName),
		LastName:  pointers.String("Tester"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *domain.Course {
	tb.Helper()
	now := stamp()
	c := &domain.Course{
		ID:          uuid.NewString(),
		Title:       title,
		Description: pointers.String("About " + title),
		Slug:        slug.Make(title) + "-" + uuid.NewString()[:8],
		Level:       learning.LevelBeginner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, title string, order int) *domain.Module {
	tb.Helper()
	now := stamp()
	m := &domain.Module{
		ID:        uuid.NewString(),
		Title:     title,
		Order:     order,
		CourseID:  courseID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID, title string, order int) *domain.Lesson {
	tb.Helper()
	now := stamp()
	l := &domain.Lesson{
		ID:        uuid.NewString(),
		Title:     title,
		Slug:      slug.Make(title),
		Order:     order,
		ModuleID:  moduleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedFeedback(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID string, rating int, helpful bool, difficulty *string) *domain.LessonFeedback {
	tb.Helper()
	now := stamp()
	f := &domain.LessonFeedback{
		ID:         uuid.NewString(),
		UserID:     userID,
		LessonID:   lessonID,
		Rating:     rating,
		IsHelpful:  helpful,
		Difficulty: difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed feedback: %v", err)
	}
	return f
}
