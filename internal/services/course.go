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

type CreateCourseInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"omitempty,oneof=NEET JEE UPSC FOUNDATION"`
}

// UpdateCourseInput patches only the non-nil fields.
type UpdateCourseInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
}

type CourseContent struct {
	Course    *types.Course     `json:"course"`
	Purchased bool              `json:"purchased"`
	Progress  learning.Progress `json:"progress"`
	Subjects  []SubjectView     `json:"subjects"`
}

type CourseService interface {
	Create(ctx context.Context, principal types.Principal, in CreateCourseInput) (*types.Course, error)
	Update(ctx context.Context, principal types.Principal, id uuid.UUID, in UpdateCourseInput) (*types.Course, error)
	Publish(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error)
	Unpublish(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error)
	Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error
	ListPublished(ctx context.Context, filter repos.CourseFilter) ([]*types.Course, error)
	ListAll(ctx context.Context, principal types.Principal) ([]*types.Course, error)
	Get(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error)
	Content(ctx context.Context, principal types.Principal, id uuid.UUID) (*CourseContent, error)
}

type CourseServiceDeps struct {
	Log       *logger.Logger
	Courses   repos.CourseRepo
	Subjects  repos.SubjectRepo
	Progress  repos.UserProgressRepo
	Purchases repos.PurchaseRepo
	Clock     Clock
	Location  *time.Location
}

type courseService struct {
	log       *logger.Logger
	courses   repos.CourseRepo
	subjects  repos.SubjectRepo
	progress  repos.UserProgressRepo
	purchases repos.PurchaseRepo
	now       Clock
	loc       *time.Location
}

func NewCourseService(deps CourseServiceDeps) CourseService {
	return &courseService{
		log:       deps.Log.With("service", "CourseService"),
		courses:   deps.Courses,
		subjects:  deps.Subjects,
		progress:  deps.Progress,
		purchases: deps.Purchases,
		now:       defaultClock(deps.Clock),
		loc:       defaultLocation(deps.Location),
	}
}

func (s *courseService) Create(ctx context.Context, principal types.Principal, in CreateCourseInput) (*types.Course, error) {
	const op = "Course.Create"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	if err := validatorInstance().Struct(in); err != nil {
		return nil, domainagg.Validation(op, validationMessage(err))
	}
	course := &types.Course{
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       in.Price,
		Category:    categoryPtr(in.Category),
	}
	if err := s.courses.Create(dbctx.New(ctx), course); err != nil {
		return nil, internalError(op, err)
	}
	s.log.Info("course created", "course_id", course.ID)
	return course, nil
}

func (s *courseService) Update(ctx context.Context, principal types.Principal, id uuid.UUID, in UpdateCourseInput) (*types.Course, error) {
	const op = "Course.Update"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if _, err := s.mustGet(dbc, op, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if v := trimmed(in.Title); v != nil {
		if *v == "" {
			return nil, domainagg.Validation(op, "title is required")
		}
		updates["title"] = *v
	}
	if v := trimmed(in.Description); v != nil {
		updates["description"] = *v
	}
	if v := trimmed(in.ImageURL); v != nil {
		updates["image_url"] = *v
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, domainagg.Validation(op, "price must be gte 0")
		}
		updates["price"] = *in.Price
	}
	if v := trimmed(in.Category); v != nil {
		c := strings.ToUpper(*v)
		if c != "" && !learning.CourseCategory(c).Valid() {
			return nil, domainagg.Validation(op, "category must be one of NEET JEE UPSC FOUNDATION")
		}
		updates["category"] = categoryPtr(c)
	}
	if err := s.courses.Update(dbc, id, updates); err != nil {
		return nil, internalError(op, err)
	}
	return s.mustGet(dbc, op, id)
}

// Publish requires title, description, image, a positive price and at least one subject.
func (s *courseService) Publish(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error) {
	const op = "Course.Publish"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	course, err := s.mustGet(dbc, op, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjects.CountByCourse(dbc, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if strings.TrimSpace(course.Title) == "" ||
		strings.TrimSpace(course.Description) == "" ||
		strings.TrimSpace(course.ImageURL) == "" ||
		course.Price <= 0 ||
		subjects == 0 {
		return nil, domainagg.Validation(op, "Missing required fields")
	}
	return s.setPublished(dbc, op, id, true)
}

func (s *courseService) Unpublish(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error) {
	const op = "Course.Unpublish"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	if _, err := s.mustGet(dbc, op, id); err != nil {
		return nil, err
	}
	return s.setPublished(dbc, op, id, false)
}

func (s *courseService) setPublished(dbc dbctx.Context, op string, id uuid.UUID, published bool) (*types.Course, error) {
	if err := s.courses.Update(dbc, id, map[string]any{"is_published": published}); err != nil {
		return nil, internalError(op, err)
	}
	s.log.Info("course publish state changed", "course_id", id, "published", published)
	return s.mustGet(dbc, op, id)
}

func (s *courseService) Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error {
	const op = "Course.Delete"
	if err := requireAdmin(op, principal); err != nil {
		return err
	}
	n, err := s.courses.Delete(dbctx.New(ctx), id)
	if err != nil {
		return internalError(op, err)
	}
	if n == 0 {
		return domainagg.NotFound(op, "Course not found")
	}
	return nil
}

func (s *courseService) ListPublished(ctx context.Context, filter repos.CourseFilter) ([]*types.Course, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Category = learning.CourseCategory(strings.ToUpper(strings.TrimSpace(string(filter.Category))))
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domainagg.Validation("Course.ListPublished", "unknown category")
	}
	out, err := s.courses.ListPublished(dbctx.New(ctx), filter)
	if err != nil {
		return nil, internalError("Course.ListPublished", err)
	}
	return out, nil
}

func (s *courseService) ListAll(ctx context.Context, principal types.Principal) ([]*types.Course, error) {
	const op = "Course.ListAll"
	if err := requireAdmin(op, principal); err != nil {
		return nil, err
	}
	out, err := s.courses.ListAll(dbctx.New(ctx))
	if err != nil {
		return nil, internalError(op, err)
	}
	return out, nil
}

// Get returns the course with its subject outline. Drafts are visible to admins only.
func (s *courseService) Get(ctx context.Context, principal types.Principal, id uuid.UUID) (*types.Course, error) {
	const op = "Course.Get"
	course, err := s.courses.GetWithSubjects(dbctx.New(ctx), id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil || (!course.IsPublished && !principal.IsAdmin()) {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	return course, nil
}

func (s *courseService) Content(ctx context.Context, principal types.Principal, id uuid.UUID) (*CourseContent, error) {
	const op = "Course.Content"
	if err := requireUser(op, principal); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	course, err := s.courses.GetContent(dbc, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil || (!course.IsPublished && !principal.IsAdmin()) {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	purchase, err := s.purchases.GetByUserCourse(dbc, principal.UserID, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	all := learning.FlattenPublishedLessons(course.Subjects)
	done, err := s.progress.CompletedLessonIDs(dbc, principal.UserID, lessonIDs(all))
	if err != nil {
		return nil, internalError(op, err)
	}

	now := s.now()
	out := &CourseContent{
		Purchased: purchase != nil,
		Progress:  learning.NewProgress(len(done), len(all)),
		Subjects:  make([]SubjectView, 0, len(course.Subjects)),
	}
	for _, subj := range course.Subjects {
		out.Subjects = append(out.Subjects, buildSubjectView(subj, done, now, s.loc))
	}
	course.Subjects = nil
	out.Course = course
	return out, nil
}

func (s *courseService) mustGet(dbc dbctx.Context, op string, id uuid.UUID) (*types.Course, error) {
	course, err := s.courses.GetByID(dbc, id)
	if err != nil {
		return nil, internalError(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "Course not found")
	}
	return course, nil
}

func categoryPtr(c string) *learning.CourseCategory {
	if c == "" {
		return nil
	}
	cat := learning.CourseCategory(c)
	return &cat
}
