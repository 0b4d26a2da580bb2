package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/classbridge-backend/internal/data/repos"
	types "github.com/yungbote/classbridge-backend/internal/domain"
	domainagg "github.com/yungbote/classbridge-backend/internal/domain/aggregates"
	"github.com/yungbote/classbridge-backend/internal/domain/learning"
	"github.com/yungbote/classbridge-backend/internal/pkg/dbctx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

type CreateSubjectInput struct {
	Title      string      `json:"title" validate:"required"`
	TeacherIDs []uuid.UUID `json:"teacherIds"`
}

// UpdateSubjectInput patches the title and, when TeacherIDs is non-nil, replaces the teacher set.
type UpdateSubjectInput struct {
	Title      *string     `json:"title"`
	TeacherIDs []uuid.UUID `json:"teacherIds"`
}

type SubjectPage struct {
	CourseID uuid.UUID         `json:"course_id"`
	Subject  SubjectView       `json:"subject"`
	Teachers []*types.Teacher  `json:"teachers"`
	Progress learning.Progress `json:"progress"`
}

type SubjectService interface {
	Create(ctx context.Context, principal types.Principal, courseID uuid.UUID, in CreateSubjectInput) (*types.Subject, error)
	Update(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID, in UpdateSubjectInput) (*types.Subject, error)
	Delete(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Subject, error)
	Page(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID) (*SubjectPage, error)
}

type SubjectServiceDeps struct {
	Log      *logger.Logger
	Courses  repos.CourseRepo
	Subjects repos.SubjectRepo
	Teachers repos.TeacherRepo
	Progress repos.UserProgressRepo
	Clock    Clock
	Location *time.Location
}

type subjectService struct {
	log      *logger.Logger
	courses  repos.CourseRepo
	subjects repos.SubjectRepo
	teachers repos.TeacherRepo
	progress repos.UserProgressRepo
	now      Clock
	loc      *time.Location
}

func NewSubjectService(deps SubjectServiceDeps) SubjectService {
	return &subjectService{
		log:      deps.Log.With("service", "SubjectService"),
		courses:  deps.Courses,
		subjects: deps.Subjects,
		teachers: deps.Teachers,
		progress: deps.Progress,
		now:      defaultClock(deps.Clock),
		loc:      defaultLocation(deps.Location),
	}
}

func (s *subjectService) Create(ctx context.Context, principal types.Principal, courseID uuid.UUID, in CreateSubjectInput) (*types.Subject, error) {
	const op = "Subject.Create"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, domainagg.Validation(op, validationMessage(err))
	}
	dbc := dbctx.New(ctx)
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	last, err := s.subjects.LastPosition(dbc, courseID)
	if err != nil {
		return nil, internalError(op, err)
	}
	subject := &types.Subject{CourseID: courseID, Title: in.Title, Position: last + 1}
	if err := s.subjects.Create(dbc, subject); err != nil {
		return nil, passthrough(op, err)
	}
	if len(in.TeacherIDs) > 0 {
		if err := s.replaceTeachers(dbc, op, subject, in.TeacherIDs); err != nil {
			return nil, err
		}
	}
	return s.subjects.GetInCourse(dbc, courseID, subject.ID)
}

func (s *subjectService) Update(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID, in UpdateSubjectInput) (*types.Subject, error) {
	const op = "Subject.Update"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	subject, err := s.inCourse(dbc, op, courseID, subjectID)
	if err != nil {
		return nil, err
	}
	if v := trimmed(in.Title); v != nil {
		if *v == "" {
			return nil, domainagg.Validation(op, "title is required")
		}
		if err := s.subjects.Update(dbc, subject.ID, map[string]any{"title": *v}); err != nil {
			return nil, internalError(op, err)
		}
	}
	if in.TeacherIDs != nil {
		if err := s.replaceTeachers(dbc, op, subject, in.TeacherIDs); err != nil {
			return nil, err
		}
	}
	return s.subjects.GetInCourse(dbc, courseID, subject.ID)
}

func (s *subjectService) replaceTeachers(dbc dbctx.Context, op string, subject *types.Subject, ids []uuid.UUID) error {
	found, err := s.teachers.GetByIDs(dbc, ids)
	if err != nil {
		return internalError(op, err)
	}
	if len(found) != len(uniqueIDs(ids)) {
		return domainagg.Validation(op, "Unknown teacher")
	}
	if err := s.subjects.ReplaceTeachers(dbc, subject, ids); err != nil {
		return internalError(op, err)
	}
	return nil
}

func (s *subjectService) Delete(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID) error {
	const op = "Subject.Delete"
	if err := requireAdmin(op, principal); err != nil {
		return err
	}
	dbc := dbctx.New(ctx)
	if _, err := s.inCourse(dbc, op, courseID, subjectID); err != nil {
		return err
	}
	if _, err := s.subjects.Delete(dbc, subjectID); err != nil {
		return internalError(op, err)
	}
	s.log.Info("subject deleted", "course_id", courseID, "subject_id", subjectID)
	return nil
}

func (s *subjectService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Subject, error) {
	out, err := s.subjects.ListByCourse(dbctx.New(ctx), courseID)
	if err != nil {
		return nil, internalError("Subject.ListByCourse", err)
	}
	return out, nil
}

// Page is the learner view of one subject: published chapters and lessons with their states.
func (s *subjectService) Page(ctx context.Context, principal types.Principal, courseID, subjectID uuid.UUID) (*SubjectPage, error) {
	const op = "Subject.Page"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	head, err := s.inCourse(dbc, op, courseID, subjectID)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjects.GetContent(dbc, subjectID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if subject == nil {
		return nil, domainagg.NotFound(op, "Subject not found")
	}
	all := learning.FlattenSubjectLessons(*subject)
	done, err := s.progress.CompletedLessonIDs(dbc, principal.UserID, lessonIDs(all))
	if err != nil {
		return nil, internalError(op, err)
	}
	view := buildSubjectView(*subject, done, s.now(), s.loc)
	teachers := make([]*types.Teacher, 0, len(head.Teachers))
	for i := range head.Teachers {
		teachers = append(teachers, &head.Teachers[i])
	}
	return &SubjectPage{
		CourseID: courseID,
		Subject:  view,
		Teachers: teachers,
		Progress: view.Progress,
	}, nil
}

func (s *subjectService) inCourse(dbc dbctx.Context, op string, courseID, subjectID uuid.UUID) (*types.Subject, error) {
	subject, err := s.subjects.GetInCourse(dbc, courseID, subjectID)
	if err != nil {
		return nil, internalError(op, err)
	}
	if subject == nil {
		return nil, domainagg.NotFound(op, "Subject not found")
	}
	return subject, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
