package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "Test User",
		Role:  role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, published bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: "description",
		ImageURL:    "https://cdn.example.com/course.png",
		Price:       4999,
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, position int, teachers ...*types.Teacher) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    fmt.Sprintf("Subject %d", position),
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	if len(teachers) > 0 {
		if err := tx.WithContext(ctx).Model(s).Association("Teachers").Append(teachers); err != nil {
			tb.Fatalf("seed subject teachers: %v", err)
		}
	}
	return s
}

func SeedTeacher(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Teacher {
	tb.Helper()
	t := &types.Teacher{
		ID:    uuid.New(),
		Name:  "Teacher " + email,
		Email: email,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed teacher: %v", err)
	}
	return t
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, title string, position int, published bool) *types.Chapter {
	tb.Helper()
	ch := &types.Chapter{
		ID:          uuid.New(),
		SubjectID:   subjectID,
		Title:       title,
		Position:    position,
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, position int, date time.Time, published bool) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:          uuid.New(),
		ChapterID:   chapterID,
		Title:       fmt.Sprintf("Lesson %d", position),
		Position:    position,
		Date:        date.UTC(),
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, completed bool) *types.UserProgress {
	tb.Helper()
	p := &types.UserProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		IsCompleted: completed,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return p
}

func SeedPurchase(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, price float64) *types.Purchase {
	tb.Helper()
	p := &types.Purchase{
		ID:       uuid.New(),
		UserID:   userID,
		CourseID: courseID,
		Price:    price,
		OrderID:  "order_" + uuid.NewString()[:8],
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed purchase: %v", err)
	}
	return p
}
