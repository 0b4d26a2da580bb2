package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type CourseWithProgress struct {
	Course   *types.Course     `json:"course"`
	Progress learning.Progress `json:"progress"`
}

type Dashboard struct {
	Completed  []CourseWithProgress `json:"completed"`
	InProgress []CourseWithProgress `json:"in_progress"`
}

type ProgressService interface {
	CourseProgress(ctx context.Context, principal types.Principal, courseID uuid.UUID) (learning.Progress, error)
	SubjectProgress(ctx context.Context, principal types.Principal, subjectID uuid.UUID) (learning.Progress, error)
	SetLessonProgress(ctx context.Context, principal types.Principal, courseID, lessonID uuid.UUID, isCompleted bool) (*types.UserProgress, error)
	DashboardCourses(ctx context.Context, principal types.Principal) (Dashboard, error)
	NextLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error)
}

type ProgressServiceDeps struct {
	Log       *logger.Logger
	Courses   repos.CourseRepo
	Subjects  repos.SubjectRepo
	Lessons   repos.LessonRepo
	Progress  repos.UserProgressRepo
	Purchases repos.PurchaseRepo
	Notifier  Notifier
	Metrics   *observability.Metrics
	Clock     Clock
}

type progressService struct {
	log       *logger.Logger
	courses   repos.CourseRepo
	subjects  repos.SubjectRepo
	lessons   repos.LessonRepo
	progress  repos.UserProgressRepo
	purchases repos.PurchaseRepo
	notifier  Notifier
	metrics   *observability.Metrics
	now       Clock
}

func NewProgressService(deps ProgressServiceDeps) ProgressService {
	if deps.Notifier == nil {
		deps.Notifier = NewNotifier(nil)
	}
	return &progressService{
		log:       deps.Log.With("service", "ProgressService"),
		courses:   deps.Courses,
		subjects:  deps.Subjects,
		lessons:   deps.Lessons,
		progress:  deps.Progress,
		purchases: deps.Purchases,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		now:       defaultClock(deps.Clock),
	}
}

func (s *progressService) CourseProgress(ctx context.Context, principal types.Principal, courseID uuid.UUID) (learning.Progress, error) {
	const op = "Progress.CourseProgress"
	if err := requireUser(op, principal); err != nil {
		return learning.Progress{}, err
	}
	dbc := dbctx.New(ctx)
	course, err := s.courses.GetContent(dbc, courseID)
	if err != nil {
		return learning.Progress{}, internalError(op, err)
	}
	if course == nil {
		return learning.Progress{}, domainagg.NotFound(op, "Course not found")
	}
	return s.progressOf(dbc, principal.UserID, learning.FlattenPublishedLessons(course.Subjects))
}

func (s *progressService) SubjectProgress(ctx context.Context, principal types.Principal, subjectID uuid.UUID) (learning.Progress, error) {
	const op = "Progress.SubjectProgress"
	if err := requireUser(op, principal); err != nil {
		return learning.Progress{}, err
	}
	dbc := dbctx.New(ctx)
	subject, err := s.subjects.GetContent(dbc, subjectID)
	if err != nil {
		return learning.Progress{}, internalError(op, err)
	}
	if subject == nil {
		return learning.Progress{}, domainagg.NotFound(op, "Subject not found")
	}
	return s.progressOf(dbc, principal.UserID, learning.FlattenSubjectLessons(*subject))
}

func (s *progressService) progressOf(dbc dbctx.Context, userID uuid.UUID, lessons []types.Lesson) (learning.Progress, error) {
	if len(lessons) == 0 {
		return learning.NewProgress(0, 0), nil
	}
	done, err := s.progress.CompletedLessonIDs(dbc, userID, lessonIDs(lessons))
	if err != nil {
		return learning.Progress{}, internalError("Progress.progressOf", err)
	}
	return learning.NewProgress(len(done), len(lessons)), nil
}

// SetLessonProgress upserts the caller's completion flag. courseID, when set, must own the lesson.
func (s *progressService) SetLessonProgress(ctx context.Context, principal types.Principal, courseID, lessonID uuid.UUID, isCompleted bool) (*types.UserProgress, error) {
	const op = "Progress.SetLessonProgress"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, "Lesson not found")
	}
	if courseID != uuid.Nil {
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
	}

	row, err := s.progress.Upsert(dbc, principal.UserID, lesson.ID, isCompleted)
	if err != nil {
		return nil, internalError(op, err)
	}
	s.metrics.IncProgressUpdate(isCompleted)
	s.notifier.LessonProgressUpdated(principal.UserID, courseID, row)
	return row, nil
}

// DashboardCourses splits the caller's purchased courses by completion. 100% is completed,
// everything else (0% included) is in progress.
func (s *progressService) DashboardCourses(ctx context.Context, principal types.Principal) (Dashboard, error) {
	const op = "Progress.DashboardCourses"
	out := Dashboard{Completed: []CourseWithProgress{}, InProgress: []CourseWithProgress{}}
	if err := requireUser(op, principal); err != nil {
		return out, err
	}
	dbc := dbctx.New(ctx)
	purchases, err := s.purchases.ListByUser(dbc, principal.UserID)
	if err != nil {
		return out, internalError(op, err)
	}
	for _, p := range purchases {
		course, err := s.courses.GetContent(dbc, p.CourseID)
		if err != nil {
			return out, internalError(op, err)
		}
		if course == nil {
			continue
		}
		prog, err := s.progressOf(dbc, principal.UserID, learning.FlattenPublishedLessons(course.Subjects))
		if err != nil {
			return out, err
		}
		entry := CourseWithProgress{Course: course, Progress: prog}
		if prog.Status == learning.ProgressCompleted {
			out.Completed = append(out.Completed, entry)
		} else {
			out.InProgress = append(out.InProgress, entry)
		}
	}
	return out, nil
}

// NextLesson returns the earliest published lesson of the same subject scheduled strictly
// after lessonID, or nil.
func (s *progressService) NextLesson(ctx context.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	const op = "Progress.NextLesson"
	dbc := dbctx.New(ctx)
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, "Lesson not found")
	}
	subjectID, err := s.lessons.SubjectIDOf(dbc, lesson.ID)
	if err != nil {
		return nil, internalError(op, err)
	}
	next, err := s.lessons.NextInSubject(dbc, subjectID, lesson.Date)
	if err != nil {
		return nil, internalError(op, err)
	}
	return next, nil
}
