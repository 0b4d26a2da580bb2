package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

// scheduleWindowDays is the default operations window: today plus the next six days.
const scheduleWindowDays = 6

type CreateLessonInput struct {
	Title     string    `json:"title" validate:"required"`
	ChapterID uuid.UUID `json:"chapterId" validate:"required"`
	TeacherID uuid.UUID `json:"teacherId" validate:"required"`
	Date      string    `json:"date" validate:"required"`
}

// UpdateLessonInput patches only the non-nil fields.
type UpdateLessonInput struct {
	Title       *string    `json:"title"`
	Date        *string    `json:"date"`
	TeacherID   *uuid.UUID `json:"teacherId"`
	VideoURL    *string    `json:"videoUrl"`
	NotesURL    *string    `json:"notesUrl"`
	IsPublished *bool      `json:"isPublished"`
	IsFree      *bool      `json:"isFree"`
}

type LessonPage struct {
	CourseID  uuid.UUID           `json:"course_id"`
	SubjectID uuid.UUID           `json:"subject_id"`
	Lesson    LessonView          `json:"lesson"`
	Next      *types.Lesson       `json:"next_lesson"`
	Progress  *types.UserProgress `json:"progress"`
}

type ScheduleEntry struct {
	Lesson      *types.Lesson `json:"lesson"`
	DisplayDate string        `json:"display_date"`
}

// ScheduleRange bounds a schedule listing. Zero values fall back to today .. today+6.
type ScheduleRange struct {
	From time.Time
	To   time.Time
}

type LessonService interface {
	Create(ctx context.Context, principal types.Principal, in CreateLessonInput) (*types.Lesson, error)
	Update(ctx context.Context, principal types.Principal, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error)
	Delete(ctx context.Context, principal types.Principal, lessonID uuid.UUID) error
	View(ctx context.Context, principal types.Principal, courseID, lessonID uuid.UUID) (*LessonPage, error)
	Schedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID, rng ScheduleRange) ([]ScheduleEntry, error)
	UploadAsset(ctx context.Context, principal types.Principal, lessonID uuid.UUID, kind learning.AssetKind, filename string, file io.Reader) (*types.Lesson, error)
}

type LessonServiceDeps struct {
	Log      *logger.Logger
	Subjects repos.SubjectRepo
	Chapters repos.ChapterRepo
	Lessons  repos.LessonRepo
	Teachers repos.TeacherRepo
	Progress repos.UserProgressRepo
	// Bucket is optional; UploadAsset fails with a precondition error without it.
	Bucket   gcp.BucketService
	Clock    Clock
	Location *time.Location
}

type lessonService struct {
	log      *logger.Logger
	subjects repos.SubjectRepo
	chapters repos.ChapterRepo
	lessons  repos.LessonRepo
	teachers repos.TeacherRepo
	progress repos.UserProgressRepo
	bucket   gcp.BucketService
	now      Clock
	loc      *time.Location
}

func NewLessonService(deps LessonServiceDeps) LessonService {
	return &lessonService{
		log:      deps.Log.With("service", "LessonService"),
		subjects: deps.Subjects,
		chapters: deps.Chapters,
		lessons:  deps.Lessons,
		teachers: deps.Teachers,
		progress: deps.Progress,
		bucket:   deps.Bucket,
		now:      defaultClock(deps.Clock),
		loc:      defaultLocation(deps.Location),
	}
}

// Create adds one published lesson at the end of its chapter.
func (s *lessonService) Create(ctx context.Context, principal types.Principal, in CreateLessonInput) (*types.Lesson, error) {
	const op = "Lesson.Create"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, domainagg.Validation(op, "Missing required fields")
	}
	date, err := ParseInstant(in.Date)
	if err != nil {
		return nil, domainagg.Validation(op, "invalid date")
	}
	dbc := dbctx.New(ctx)
	chapter, err := s.chapters.GetByID(dbc, in.ChapterID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if chapter == nil {
		return nil, domainagg.NotFound(op, "Chapter not found")
	}
	if err := s.requireTeacher(dbc, op, in.TeacherID); err != nil {
		return nil, err
	}
	last, err := s.lessons.LastPosition(dbc, chapter.ID)
	if err != nil {
		return nil, internalError(op, err)
	}
	teacherID := in.TeacherID
	lesson := &types.Lesson{
		ID:          uuid.New(),
		ChapterID:   chapter.ID,
		Title:       in.Title,
		Position:    last + 1,
		Date:        date,
		IsPublished: true,
		TeacherID:   &teacherID,
	}
	if err := s.lessons.Create(dbc, lesson); err != nil {
		return nil, passthrough(op, err)
	}
	s.log.Info("lesson created", "lesson_id", lesson.ID, "chapter_id", chapter.ID, "position", lesson.Position)
	return s.mustGet(dbc, op, lesson.ID)
}

func (s *lessonService) Update(ctx context.Context, principal types.Principal, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error) {
	const op = "Lesson.Update"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if _, err := s.mustGet(dbc, op, lessonID); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if v := trimmed(in.Title); v != nil {
		if *v == "" {
			return nil, domainagg.Validation(op, "title is required")
		}
		updates["title"] = *v
	}
	if in.Date != nil {
		date, err := ParseInstant(*in.Date)
		if err != nil {
			return nil, domainagg.Validation(op, "invalid date")
		}
		updates["date"] = date
	}
	if in.TeacherID != nil {
		if err := s.requireTeacher(dbc, op, *in.TeacherID); err != nil {
			return nil, err
		}
		updates["teacher_id"] = *in.TeacherID
	}
	if v := trimmed(in.VideoURL); v != nil {
		updates["video_url"] = nullable(*v)
	}
	if v := trimmed(in.NotesURL); v != nil {
		updates["notes_url"] = nullable(*v)
	}
	if in.IsPublished != nil {
		updates["is_published"] = *in.IsPublished
	}
	if in.IsFree != nil {
		updates["is_free"] = *in.IsFree
	}
	if err := s.lessons.Update(dbc, lessonID, updates); err != nil {
		return nil, passthrough(op, err)
	}
	return s.mustGet(dbc, op, lessonID)
}

func (s *lessonService) Delete(ctx context.Context, principal types.Principal, lessonID uuid.UUID) error {
	const op = "Lesson.Delete"
	if err := requireAdmin(op, principal); err != nil {
		return err
	}
	n, err := s.lessons.Delete(dbctx.New(ctx), lessonID)
	if err != nil {
		return internalError(op, err)
	}
	if n == 0 {
		return domainagg.NotFound(op, "Lesson not found")
	}
	return nil
}

// View is the learner page of one lesson. Future lessons come back locked with no media.
func (s *lessonService) View(ctx context.Context, principal types.Principal, courseID, lessonID uuid.UUID) (*LessonPage, error) {
	const op = "Lesson.View"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.mustGet(dbc, op, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsPublished && !principal.IsAdmin() {
		return nil, domainagg.NotFound(op, "Lesson not found")
	}
	subjectID, err := s.lessons.SubjectIDOf(dbc, lesson.ID)
	if err != nil {
		return nil, internalError(op, err)
	}
	subject, err := s.subjects.GetInCourse(dbc, courseID, subjectID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if subject == nil {
		return nil, domainagg.NotFound(op, "Lesson not found")
	}
	row, err := s.progress.Get(dbc, principal.UserID, lesson.ID)
	if err != nil {
		return nil, internalError(op, err)
	}

	page := &LessonPage{
		CourseID:  courseID,
		SubjectID: subjectID,
		Lesson:    newLessonView(*lesson, row != nil && row.IsCompleted, s.now(), s.loc),
		Progress:  row,
	}
	if page.Lesson.Locked {
		return page, nil
	}
	next, err := s.lessons.NextInSubject(dbc, subjectID, lesson.Date)
	if err != nil {
		return nil, internalError(op, err)
	}
	page.Next = next
	return page, nil
}

// Schedule lists a subject's lessons between the start of rng.From's day and the end of
// rng.To's day in the display timezone.
func (s *lessonService) Schedule(ctx context.Context, principal types.Principal, subjectID uuid.UUID, rng ScheduleRange) ([]ScheduleEntry, error) {
	const op = "Lesson.Schedule"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	now := s.now()
	from, to := rng.From, rng.To
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = learning.StartOfDay(from, s.loc).AddDate(0, 0, scheduleWindowDays)
	}
	start := learning.StartOfDay(from, s.loc)
	end := learning.EndOfDay(to, s.loc)
	if end.Before(start) {
		return nil, domainagg.Validation(op, "from must not be after to")
	}
	lessons, err := s.lessons.ListScheduleBySubject(dbctx.New(ctx), subjectID, start, end)
	if err != nil {
		return nil, internalError(op, err)
	}
	out := make([]ScheduleEntry, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, ScheduleEntry{Lesson: l, DisplayDate: learning.FormatDisplay(l.Date, s.loc)})
	}
	return out, nil
}

// UploadAsset stores file in the media bucket and points the lesson's kind slot at it.
func (s *lessonService) UploadAsset(ctx context.Context, principal types.Principal, lessonID uuid.UUID, kind learning.AssetKind, filename string, file io.Reader) (*types.Lesson, error) {
	const op = "Lesson.UploadAsset"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	if s.bucket == nil {
		return nil, domainagg.NewError(domainagg.CodePreconditionFailed, op, "Storage is not configured", nil)
	}
	if _, err := learning.ParseAssetKind(string(kind)); err != nil {
		return nil, domainagg.Validation(op, "Unknown asset kind")
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.mustGet(dbc, op, lessonID)
	if err != nil {
		return nil, err
	}
	key := lessonAssetKey(lesson.ID, kind, filename, s.now())
	if err := s.bucket.UploadFile(dbc, gcp.BucketCategoryMedia, key, file); err != nil {
		return nil, internalError(op, err)
	}
	url := s.bucket.GetPublicURL(gcp.BucketCategoryMedia, key)
	kind.Apply(lesson, url)
	updates := map[string]any{"video_url": lesson.VideoURL, "notes_url": lesson.NotesURL}
	if err := s.lessons.Update(dbc, lesson.ID, updates); err != nil {
		return nil, internalError(op, err)
	}
	s.log.Info("lesson asset uploaded", "lesson_id", lesson.ID, "kind", kind, "key", key)
	return s.mustGet(dbc, op, lesson.ID)
}

func (s *lessonService) requireTeacher(dbc dbctx.Context, op string, id uuid.UUID) error {
	teacher, err := s.teachers.GetByID(dbc, id)
	if err != nil {
		return internalError(op, err)
	}
	if teacher == nil {
		return domainagg.Validation(op, "Unknown teacher")
	}
	return nil
}

func (s *lessonService) mustGet(dbc dbctx.Context, op string, id uuid.UUID) (*types.Lesson, error) {
	lesson, err := s.lessons.GetByID(dbc, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, "Lesson not found")
	}
	return lesson, nil
}

func lessonAssetKey(id uuid.UUID, kind learning.AssetKind, filename string, at time.Time) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	return fmt.Sprintf("lessons/%s/%s/%d%s", id, kind, at.UnixNano(), ext)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
