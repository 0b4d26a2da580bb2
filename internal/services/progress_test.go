package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repotest "github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/realtime"
)

var progressNow = time.Date(2025, 11, 25, 12, 0, 0, 0, time.UTC)

// seedCourseWithLessons creates one subject with a single published chapter of n published lessons.
func seedCourseWithLessons(t *testing.T, h *harness, title string, n int) (*types.Course, *types.Subject, []*types.Lesson) {
	t.Helper()
	course := repotest.SeedCourse(t, h.ctx, h.tx, title, true)
	subject := repotest.SeedSubject(t, h.ctx, h.tx, course.ID, 1)
	ch := repotest.SeedChapter(t, h.ctx, h.tx, subject.ID, "Chapter", 1, true)
	lessons := make([]*types.Lesson, 0, n)
	for i := 0; i < n; i++ {
		lessons = append(lessons, repotest.SeedLesson(t, h.ctx, h.tx, ch.ID, i+1, progressNow.AddDate(0, 0, i-n), true))
	}
	return course, subject, lessons
}

func TestCourseProgressThreeOfTen(t *testing.T) {
	h := newHarness(t)
	u, p := h.student(t, "s@x.com")
	course, subject, lessons := seedCourseWithLessons(t, h, "JEE", 10)
	for _, l := range lessons[:3] {
		repotest.SeedProgress(t, h.ctx, h.tx, u.ID, l.ID, true)
	}
	// an unchecked row does not count
	repotest.SeedProgress(t, h.ctx, h.tx, u.ID, lessons[3].ID, false)

	svc := h.progressService(progressNow)
	prog, err := svc.CourseProgress(h.ctx, p, course.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.Progress{Completed: 3, Total: 10, Percentage: 30, Status: learning.ProgressInProgress}, prog)

	sprog, err := svc.SubjectProgress(h.ctx, p, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, prog, sprog)
}

func TestCourseProgressIgnoresUnpublishedScope(t *testing.T) {
	h := newHarness(t)
	u, p := h.student(t, "s@x.com")
	course, subject, lessons := seedCourseWithLessons(t, h, "JEE", 2)
	draft := repotest.SeedChapter(t, h.ctx, h.tx, subject.ID, "Draft", 2, false)
	hidden := repotest.SeedLesson(t, h.ctx, h.tx, draft.ID, 1, progressNow, true)
	repotest.SeedProgress(t, h.ctx, h.tx, u.ID, hidden.ID, true)
	repotest.SeedProgress(t, h.ctx, h.tx, u.ID, lessons[0].ID, true)

	prog, err := h.progressService(progressNow).CourseProgress(h.ctx, p, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Completed)
	assert.Equal(t, 2, prog.Total)
	assert.Equal(t, 50, prog.Percentage)
}

func TestCourseProgressEmptyCourseIsZero(t *testing.T) {
	h := newHarness(t)
	_, p := h.student(t, "s@x.com")
	course := repotest.SeedCourse(t, h.ctx, h.tx, "Empty", true)

	prog, err := h.progressService(progressNow).CourseProgress(h.ctx, p, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, prog.Percentage)
	assert.Equal(t, 0, prog.Total)
}

func TestCourseProgressGuards(t *testing.T) {
	h := newHarness(t)
	_, p := h.student(t, "s@x.com")
	svc := h.progressService(progressNow)

	_, err := svc.CourseProgress(h.ctx, anonymous, uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))
	_, err = svc.CourseProgress(h.ctx, p, uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
	_, err = svc.SubjectProgress(h.ctx, p, uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
}

func TestSetLessonProgressIsIdempotent(t *testing.T) {
	h := newHarness(t)
	_, p := h.student(t, "s@x.com")
	course, _, lessons := seedCourseWithLessons(t, h, "JEE", 2)
	svc := h.progressService(progressNow)

	for i := 0; i < 3; i++ {
		row, err := svc.SetLessonProgress(h.ctx, p, course.ID, lessons[0].ID, true)
		require.NoError(t, err)
		assert.True(t, row.IsCompleted)
	}
	assert.Equal(t, int64(1), h.count(t, &types.UserProgress{}))

	row, err := svc.SetLessonProgress(h.ctx, p, course.ID, lessons[0].ID, false)
	require.NoError(t, err)
	assert.False(t, row.IsCompleted)
	assert.Equal(t, int64(1), h.count(t, &types.UserProgress{}))

	events := h.events.Events()
	require.Len(t, events, 4)
	assert.Equal(t, realtime.SSEEventLessonProgressUpdated, events[0])
}

func TestSetLessonProgressNotFound(t *testing.T) {
	h := newHarness(t)
	_, p := h.student(t, "s@x.com")
	course, _, lessons := seedCourseWithLessons(t, h, "JEE", 1)
	other := repotest.SeedCourse(t, h.ctx, h.tx, "Other", true)
	svc := h.progressService(progressNow)

	_, err := svc.SetLessonProgress(h.ctx, p, course.ID, uuid.New(), true)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	_, err = svc.SetLessonProgress(h.ctx, p, other.ID, lessons[0].ID, true)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	_, err = svc.SetLessonProgress(h.ctx, anonymous, course.ID, lessons[0].ID, true)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))
	assert.Equal(t, int64(0), h.count(t, &types.UserProgress{}))
}

func TestDashboardCoursesSplitsByCompletion(t *testing.T) {
	h := newHarness(t)
	u, p := h.student(t, "s@x.com")
	done, _, doneLessons := seedCourseWithLessons(t, h, "Done", 10)
	partial, _, partialLessons := seedCourseWithLessons(t, h, "Partial", 10)
	untouched, _, _ := seedCourseWithLessons(t, h, "Untouched", 4)
	notBought, _, _ := seedCourseWithLessons(t, h, "Not bought", 1)

	for _, l := range doneLessons {
		repotest.SeedProgress(t, h.ctx, h.tx, u.ID, l.ID, true)
	}
	for _, l := range partialLessons[:3] {
		repotest.SeedProgress(t, h.ctx, h.tx, u.ID, l.ID, true)
	}
	repotest.SeedPurchase(t, h.ctx, h.tx, u.ID, done.ID, 100)
	repotest.SeedPurchase(t, h.ctx, h.tx, u.ID, partial.ID, 100)
	repotest.SeedPurchase(t, h.ctx, h.tx, u.ID, untouched.ID, 100)

	dash, err := h.progressService(progressNow).DashboardCourses(h.ctx, p)
	require.NoError(t, err)
	require.Len(t, dash.Completed, 1)
	assert.Equal(t, done.ID, dash.Completed[0].Course.ID)
	assert.Equal(t, 100, dash.Completed[0].Progress.Percentage)

	require.Len(t, dash.InProgress, 2)
	pct := map[uuid.UUID]int{}
	for _, c := range dash.InProgress {
		pct[c.Course.ID] = c.Progress.Percentage
		assert.NotEqual(t, notBought.ID, c.Course.ID)
	}
	assert.Equal(t, 30, pct[partial.ID])
	assert.Equal(t, 0, pct[untouched.ID])
}

func TestNextLesson(t *testing.T) {
	h := newHarness(t)
	course := repotest.SeedCourse(t, h.ctx, h.tx, "JEE", true)
	subject := repotest.SeedSubject(t, h.ctx, h.tx, course.ID, 1)
	ch1 := repotest.SeedChapter(t, h.ctx, h.tx, subject.ID, "A", 1, true)
	ch2 := repotest.SeedChapter(t, h.ctx, h.tx, subject.ID, "B", 2, true)
	first := repotest.SeedLesson(t, h.ctx, h.tx, ch1.ID, 1, progressNow, true)
	repotest.SeedLesson(t, h.ctx, h.tx, ch1.ID, 2, progressNow.Add(48*time.Hour), false)
	next := repotest.SeedLesson(t, h.ctx, h.tx, ch2.ID, 1, progressNow.Add(24*time.Hour), true)
	last := repotest.SeedLesson(t, h.ctx, h.tx, ch2.ID, 2, progressNow.Add(72*time.Hour), true)

	svc := h.progressService(progressNow)
	got, err := svc.NextLesson(h.ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, next.ID, got.ID)

	got, err = svc.NextLesson(h.ctx, last.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
