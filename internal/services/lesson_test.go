package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	repotest "github.com/yungbote/classbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/pkg/pointers"
)

func (h *harness) lessonService(now time.Time, bucket gcp.BucketService) LessonService {
	return NewLessonService(LessonServiceDeps{
		Log:      h.log,
		Subjects: h.subjects,
		Chapters: h.chapters,
		Lessons:  h.lessons,
		Teachers: h.teachers,
		Progress: h.progress,
		Bucket:   bucket,
		Clock:    func() time.Time { return now },
	})
}

type lessonFixture struct {
	course  *types.Course
	subject *types.Subject
	chapter *types.Chapter
	teacher *types.Teacher
}

func (h *harness) lessonFixture(t *testing.T) lessonFixture {
	t.Helper()
	course := repotest.SeedCourse(t, h.ctx, h.tx, "Physics", true)
	subject := repotest.SeedSubject(t, h.ctx, h.tx, course.ID, 1)
	return lessonFixture{
		course:  course,
		subject: subject,
		chapter: repotest.SeedChapter(t, h.ctx, h.tx, subject.ID, "Kinematics", 1, true),
		teacher: repotest.SeedTeacher(t, h.ctx, h.tx, "ravi@school.test"),
	}
}

func TestLessonCreateAppendsPublished(t *testing.T) {
	h := newHarness(t)
	svc := h.lessonService(progressNow, nil)
	fx := h.lessonFixture(t)
	repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 3, progressNow, true)

	lesson, err := svc.Create(h.ctx, adminPrincipal, CreateLessonInput{
		Title:     " Vectors ",
		ChapterID: fx.chapter.ID,
		TeacherID: fx.teacher.ID,
		Date:      "2025-12-01T10:00:00+05:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vectors", lesson.Title)
	assert.Equal(t, 4, lesson.Position)
	assert.True(t, lesson.IsPublished)
	assert.False(t, lesson.IsFree)
	assert.True(t, lesson.Date.Equal(time.Date(2025, 12, 1, 4, 30, 0, 0, time.UTC)))
	require.NotNil(t, lesson.Teacher)
	assert.Equal(t, fx.teacher.ID, lesson.Teacher.ID)
}

func TestLessonCreateGuards(t *testing.T) {
	h := newHarness(t)
	svc := h.lessonService(progressNow, nil)
	fx := h.lessonFixture(t)
	_, student := h.student(t, "s@school.test")
	valid := CreateLessonInput{Title: "A", ChapterID: fx.chapter.ID, TeacherID: fx.teacher.ID, Date: "2025-12-01T10:00:00Z"}

	_, err := svc.Create(h.ctx, student, valid)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))

	missing := valid
	missing.TeacherID = uuid.Nil
	_, err = svc.Create(h.ctx, adminPrincipal, missing)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
	assert.Equal(t, "Missing required fields", domainagg.MessageOf(err, ""))

	badDate := valid
	badDate.Date = "tomorrow"
	_, err = svc.Create(h.ctx, adminPrincipal, badDate)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	noChapter := valid
	noChapter.ChapterID = uuid.New()
	_, err = svc.Create(h.ctx, adminPrincipal, noChapter)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	noTeacher := valid
	noTeacher.TeacherID = uuid.New()
	_, err = svc.Create(h.ctx, adminPrincipal, noTeacher)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestLessonUpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	svc := h.lessonService(progressNow, nil)
	fx := h.lessonFixture(t)
	lesson := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 1, progressNow, true)

	updated, err := svc.Update(h.ctx, adminPrincipal, lesson.ID, UpdateLessonInput{
		Title:       pointers.Ptr("Renamed"),
		VideoURL:    pointers.Ptr("https://cdn/v.mp4"),
		IsPublished: pointers.Ptr(false),
		TeacherID:   &fx.teacher.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsPublished)
	require.NotNil(t, updated.VideoURL)
	assert.Equal(t, "https://cdn/v.mp4", *updated.VideoURL)

	cleared, err := svc.Update(h.ctx, adminPrincipal, lesson.ID, UpdateLessonInput{VideoURL: pointers.Ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.VideoURL)

	_, err = svc.Update(h.ctx, adminPrincipal, lesson.ID, UpdateLessonInput{Date: pointers.Ptr("nope")})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	require.NoError(t, svc.Delete(h.ctx, adminPrincipal, lesson.ID))
	err = svc.Delete(h.ctx, adminPrincipal, lesson.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))
}

func TestLessonViewLocksFutureLessons(t *testing.T) {
	h := newHarness(t)
	svc := h.lessonService(progressNow, nil)
	fx := h.lessonFixture(t)
	video := "https://cdn/v.mp4"
	current := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 1, progressNow.AddDate(0, 0, -1), true)
	future := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 2, progressNow.AddDate(0, 0, 2), true)
	require.NoError(t, h.tx.Model(future).Update("video_url", video).Error)
	repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 3, progressNow.AddDate(0, 0, 1), false)
	user, student := h.student(t, "s@school.test")
	repotest.SeedProgress(t, h.ctx, h.tx, user.ID, current.ID, true)

	page, err := svc.View(h.ctx, student, fx.course.ID, current.ID)
	require.NoError(t, err)
	assert.False(t, page.Lesson.Locked)
	assert.Equal(t, learning.LessonStateCompleted, page.Lesson.State)
	require.NotNil(t, page.Progress)
	assert.True(t, page.Progress.IsCompleted)
	require.NotNil(t, page.Next, "unpublished lessons are skipped")
	assert.Equal(t, future.ID, page.Next.ID)

	locked, err := svc.View(h.ctx, student, fx.course.ID, future.ID)
	require.NoError(t, err)
	assert.True(t, locked.Lesson.Locked)
	assert.Equal(t, learning.LessonStateLocked, locked.Lesson.State)
	assert.Nil(t, locked.Lesson.Lesson.VideoURL)
	assert.Nil(t, locked.Next)

	other := repotest.SeedCourse(t, h.ctx, h.tx, "Other", true)
	_, err = svc.View(h.ctx, student, other.ID, current.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound))

	_, err = svc.View(h.ctx, anonymous, fx.course.ID, current.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeUnauthorized))
}

func TestLessonScheduleWindow(t *testing.T) {
	h := newHarness(t)
	svc := h.lessonService(progressNow, nil)
	fx := h.lessonFixture(t)
	day := func(offset, hour int) time.Time {
		y, m, d := progressNow.Date()
		return time.Date(y, m, d+offset, hour, 0, 0, 0, time.UTC)
	}
	repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 1, day(-1, 23), true)
	first := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 2, day(0, 0), true)
	last := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 3, day(6, 23), true)
	repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 4, day(7, 0), true)

	entries, err := svc.Schedule(h.ctx, adminPrincipal, fx.subject.ID, ScheduleRange{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].Lesson.ID)
	assert.Equal(t, last.ID, entries[1].Lesson.ID)
	assert.Equal(t, learning.FormatDisplay(first.Date, time.UTC), entries[0].DisplayDate)

	one, err := svc.Schedule(h.ctx, adminPrincipal, fx.subject.ID, ScheduleRange{From: day(-1, 12), To: day(-1, 12)})
	require.NoError(t, err)
	require.Len(t, one, 1)

	_, err = svc.Schedule(h.ctx, adminPrincipal, fx.subject.ID, ScheduleRange{From: day(2, 0), To: day(0, 0)})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))
}

func TestLessonUploadAsset(t *testing.T) {
	h := newHarness(t)
	bucket := newFakeBucket()
	svc := h.lessonService(progressNow, bucket)
	fx := h.lessonFixture(t)
	lesson := repotest.SeedLesson(t, h.ctx, h.tx, fx.chapter.ID, 1, progressNow, true)

	updated, err := svc.UploadAsset(h.ctx, adminPrincipal, lesson.ID, learning.AssetNotes, "Week1.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.NotNil(t, updated.NotesURL)
	assert.Nil(t, updated.VideoURL)
	assert.True(t, strings.HasSuffix(*updated.NotesURL, ".pdf"))
	key := lessonAssetKey(lesson.ID, learning.AssetNotes, "Week1.PDF", progressNow)
	raw, ok := bucket.object(gcp.BucketCategoryMedia, key)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(raw))

	_, err = svc.UploadAsset(h.ctx, adminPrincipal, lesson.ID, learning.AssetKind("slides"), "x.ppt", strings.NewReader(""))
	assert.True(t, domainagg.IsCode(err, domainagg.CodeValidation))

	nostore := h.lessonService(progressNow, nil)
	_, err = nostore.UploadAsset(h.ctx, adminPrincipal, lesson.ID, learning.AssetVideo, "v.mp4", strings.NewReader(""))
	assert.True(t, domainagg.IsCode(err, domainagg.CodePreconditionFailed))
}
